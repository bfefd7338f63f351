package flow

import "field-workflow-service/internal/domain"

// state is the closed set of controller states. Data a screen needs lives on
// its state, so a route cannot exist outside the route screens and a draft
// cannot exist outside new-order.
type state interface {
	screen() Screen
}

type welcomeState struct{}
type notificationPermissionState struct{}
type locationPermissionState struct{}
type mainAppState struct{}
type customerDetailsState struct{}
type startRouteState struct{}

type newOrderState struct {
	draft       domain.OrderDraft
	suggestions []string
}

type orderConfirmationState struct {
	order domain.Order
}

type activeRouteState struct {
	route *domain.Route
}

type endRouteState struct {
	route *domain.Route
}

type routeSummaryState struct {
	route *domain.Route
}

func (welcomeState) screen() Screen                { return ScreenWelcome }
func (notificationPermissionState) screen() Screen { return ScreenNotificationPermission }
func (locationPermissionState) screen() Screen     { return ScreenLocationPermission }
func (mainAppState) screen() Screen                { return ScreenMainApp }
func (customerDetailsState) screen() Screen        { return ScreenCustomerDetails }
func (startRouteState) screen() Screen             { return ScreenStartRoute }
func (newOrderState) screen() Screen               { return ScreenNewOrder }
func (orderConfirmationState) screen() Screen      { return ScreenOrderConfirmation }
func (activeRouteState) screen() Screen            { return ScreenActiveRoute }
func (endRouteState) screen() Screen               { return ScreenEndRoute }
func (routeSummaryState) screen() Screen           { return ScreenRouteSummary }

// routeOf returns the route carried by a route state.
func routeOf(s state) (*domain.Route, bool) {
	switch st := s.(type) {
	case activeRouteState:
		return st.route, true
	case endRouteState:
		return st.route, true
	case routeSummaryState:
		return st.route, true
	}
	return nil, false
}
