package flow

// Screen names the view the host should render.
type Screen string

const (
	ScreenWelcome                Screen = "welcome"
	ScreenNotificationPermission Screen = "notification-permission"
	ScreenLocationPermission     Screen = "location-permission"
	ScreenMainApp                Screen = "main-app"
	ScreenCustomerDetails        Screen = "customer-details"
	ScreenNewOrder               Screen = "new-order"
	ScreenOrderConfirmation      Screen = "order-confirmation"
	ScreenStartRoute             Screen = "start-route"
	ScreenActiveRoute            Screen = "active-route"
	ScreenEndRoute               Screen = "end-route"
	ScreenRouteSummary           Screen = "route-summary"
)

// transitions lists every legal screen change. Staying on the same screen is
// always allowed and is not listed.
var transitions = map[Screen][]Screen{
	ScreenWelcome:                {ScreenNotificationPermission},
	ScreenNotificationPermission: {ScreenLocationPermission},
	ScreenLocationPermission:     {ScreenMainApp},
	ScreenMainApp:                {ScreenCustomerDetails, ScreenNewOrder, ScreenStartRoute},
	ScreenCustomerDetails:        {ScreenNewOrder, ScreenMainApp},
	ScreenNewOrder:               {ScreenOrderConfirmation, ScreenCustomerDetails, ScreenMainApp},
	ScreenOrderConfirmation:      {ScreenMainApp},
	ScreenStartRoute:             {ScreenActiveRoute, ScreenMainApp},
	ScreenActiveRoute:            {ScreenEndRoute},
	ScreenEndRoute:               {ScreenRouteSummary, ScreenActiveRoute},
	ScreenRouteSummary:           {ScreenMainApp},
}

// CanTransition reports whether the flow may move from one screen to another.
func CanTransition(from, to Screen) bool {
	if from == to {
		_, known := transitions[from]
		return known
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// onboardingNext maps each onboarding screen to the screen that follows it.
var onboardingNext = map[Screen]Screen{
	ScreenWelcome:                ScreenNotificationPermission,
	ScreenNotificationPermission: ScreenLocationPermission,
	ScreenLocationPermission:     ScreenMainApp,
}
