package flow

import (
	"time"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/services"

	"github.com/shopspring/decimal"
)

// Snapshot is a read-only copy of controller state for rendering. Nothing in
// it aliases controller memory.
type Snapshot struct {
	Screen            Screen             `json:"screen"`
	Permissions       domain.Permissions `json:"permissions"`
	ActiveRoute       *domain.Route      `json:"active_route,omitempty"`
	RouteProgress     *RouteProgress     `json:"route_progress,omitempty"`
	PendingOrderDraft *domain.OrderDraft `json:"pending_order_draft,omitempty"`
	SuggestedProducts []string           `json:"suggested_products,omitempty"`
	SelectedCustomer  *domain.Customer   `json:"selected_customer,omitempty"`
	Confirmation      *Confirmation      `json:"confirmation,omitempty"`
	CommittedOrders   []domain.Order     `json:"committed_orders"`
}

// RouteProgress is the derived view of the route for the route screens.
type RouteProgress struct {
	Elapsed  string                 `json:"elapsed"`
	NextStop *domain.Visit          `json:"next_stop,omitempty"`
	Visits   services.VisitStats    `json:"visits"`
	Summary  *services.RouteSummary `json:"summary,omitempty"`
}

// Confirmation is what order-confirmation shows for the order just committed.
type Confirmation struct {
	Order       domain.Order    `json:"order"`
	Total       decimal.Decimal `json:"total"`
	DeliveryETA string          `json:"delivery_eta,omitempty"`
}

func (c *Controller) snapshotLocked() Snapshot {
	now := c.clock.Now()
	s := Snapshot{
		Screen:          c.current.screen(),
		Permissions:     c.permissions,
		CommittedOrders: append([]domain.Order{}, c.orders...),
	}
	if c.selected != nil {
		cu := *c.selected
		cu.PendingIssues = append([]string(nil), c.selected.PendingIssues...)
		s.SelectedCustomer = &cu
	}

	switch st := c.current.(type) {
	case newOrderState:
		d := st.draft
		s.PendingOrderDraft = &d
		s.SuggestedProducts = append([]string(nil), st.suggestions...)
	case orderConfirmationState:
		s.Confirmation = newConfirmation(st.order)
	}

	if route, ok := routeOf(c.current); ok {
		s.ActiveRoute = route.Clone()
		s.RouteProgress = progressOf(s.ActiveRoute, now, s.Screen == ScreenRouteSummary)
	}
	return s
}

func newConfirmation(o domain.Order) *Confirmation {
	conf := &Confirmation{Order: o, Total: o.Total()}
	if o.DeliveryETA != nil {
		conf.DeliveryETA = services.FormatETA(*o.DeliveryETA)
	}
	return conf
}

// progressOf derives display values from a cloned route.
func progressOf(route *domain.Route, now time.Time, withSummary bool) *RouteProgress {
	p := &RouteProgress{
		Elapsed: services.ElapsedTime(route, now).Clock(),
		Visits:  services.VisitStatistics(route),
	}
	if next, ok := route.NextStop(); ok {
		p.NextStop = next
	}
	if withSummary {
		sum := services.SummarizeRoute(route, now)
		p.Summary = &sum
	}
	return p
}
