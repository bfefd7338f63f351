package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/errs"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/platform/metrics"
	"field-workflow-service/internal/ports"
	"field-workflow-service/internal/services"

	"github.com/google/uuid"
)

// Intent names, used in logs and metrics.
const (
	intentOnboarding       = "complete_onboarding_step"
	intentRecordPermission = "record_permission"
	intentSelectCustomer   = "select_customer"
	intentBeginNewOrder    = "begin_new_order"
	intentSubmitOrder      = "submit_order"
	intentCompleteOrder    = "complete_order_confirmation"
	intentOpenStartRoute   = "open_start_route"
	intentStartRoute       = "start_route"
	intentRecordPosition   = "record_position"
	intentMarkVisited      = "mark_visited"
	intentSkipVisit        = "skip_visit"
	intentRequestEndRoute  = "request_end_route"
	intentSubmitEndRoute   = "submit_end_route"
	intentFinishRoute      = "finish_route"
	intentBack             = "back"
)

// Controller is the single owner of workflow state. Every operation takes the
// same lock, so intents are applied one at a time in arrival order.
type Controller struct {
	mu sync.Mutex

	catalog  *domain.Catalog
	schedule ports.VisitSchedule
	sharer   ports.LocationSharer
	shares   *shareWorker
	clock    ports.Clock
	eta      ports.ETAEstimator
	log      *logger.Logger
	metrics  *metrics.FlowMetrics

	newRouteID        func() string
	legacyCameraGrant bool
	nearestFirst      bool

	current     state
	permissions domain.Permissions
	selected    *domain.Customer
	// Most recent first.
	orders      []domain.Order
	lastOrderID domain.OrderID
}

func NewController(catalog *domain.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog:    catalog,
		clock:      ports.SystemClock,
		eta:        services.NewRandomETAEstimator(2, 7),
		log:        logger.Nop(),
		newRouteID: uuid.NewString,
		current:    welcomeState{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sharer != nil {
		c.shares = newShareWorker(c.sharer, c.log)
	}
	return c
}

// Close flushes pending location sharing. Intents after Close still apply
// but no longer share.
func (c *Controller) Close() {
	c.mu.Lock()
	w := c.shares
	c.shares = nil
	c.mu.Unlock()
	if w != nil {
		w.close()
	}
}

// State returns the current snapshot.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) Catalog() *domain.Catalog { return c.catalog }

// CustomerOrders returns the committed orders for one customer, most recent
// first.
func (c *Controller) CustomerOrders(customerID string) []domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.customerOrdersLocked(customerID)
}

func (c *Controller) customerOrdersLocked(customerID string) []domain.Order {
	out := []domain.Order{}
	for _, o := range c.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out
}

// CompleteOnboardingStep records the answer for the given onboarding screen
// and advances one screen. Declining never blocks progress.
func (c *Controller) CompleteOnboardingStep(ctx context.Context, step Screen, granted bool) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentOnboarding, step)
	if err == nil {
		if _, ok := onboardingNext[step]; !ok {
			err = errs.Newf(errs.CodeState, "%s is not an onboarding step", step)
		}
	}
	if err == nil {
		var next state
		switch step {
		case ScreenWelcome:
			next = notificationPermissionState{}
		case ScreenNotificationPermission:
			c.permissions.Set(domain.PermissionNotifications, granted)
			next = locationPermissionState{}
		case ScreenLocationPermission:
			c.permissions.Set(domain.PermissionLocation, granted)
			if c.legacyCameraGrant {
				c.permissions.Set(domain.PermissionCamera, true)
			}
			next = mainAppState{}
		}
		err = c.enter(next)
	}
	return c.done(ctx, intentOnboarding, from, err)
}

// RecordPermission stores a permission answer obtained outside onboarding,
// such as the camera prompt raised by the first capture. It never changes
// the screen.
func (c *Controller) RecordPermission(ctx context.Context, kind domain.PermissionKind, granted bool) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	var err error
	if _, perr := domain.ParsePermissionKind(string(kind)); perr != nil {
		err = errs.Validation(map[string]string{"kind": perr.Error()})
	} else {
		c.permissions.Set(kind, granted)
	}
	return c.done(ctx, intentRecordPermission, from, err)
}

func (c *Controller) SelectCustomer(ctx context.Context, customerID string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentSelectCustomer, ScreenMainApp)
	if err == nil {
		id := strings.TrimSpace(customerID)
		cu, ok := c.catalog.Customer(id)
		switch {
		case id == "":
			err = errs.Validation(map[string]string{"customer_id": "Please select a customer"})
		case !ok:
			err = errs.Newf(errs.CodeNotFound, "customer %q not found", id)
		default:
			if err = c.enter(customerDetailsState{}); err == nil {
				c.selected = &cu
			}
		}
	}
	return c.done(ctx, intentSelectCustomer, from, err)
}

// BeginNewOrder opens the order form. A customer id matching the selected
// customer pre-fills the draft; anything else starts an empty draft.
func (c *Controller) BeginNewOrder(ctx context.Context, customerID string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentBeginNewOrder, ScreenMainApp, ScreenCustomerDetails)
	if err == nil {
		next := newOrderState{}
		id := strings.TrimSpace(customerID)
		if id != "" && c.selected != nil && c.selected.ID == id {
			next.draft.CustomerID = c.selected.ID
			next.draft.CustomerName = c.selected.DisplayName()
			next.suggestions = services.SuggestFrequentProducts(c.customerOrdersLocked(id))
		}
		err = c.enter(next)
	}
	return c.done(ctx, intentBeginNewOrder, from, err)
}

// SubmitOrder validates and prices the draft. On success the order gets the
// next id and is prepended to the committed orders. A rejected draft consumes
// no id and leaves state untouched.
func (c *Controller) SubmitOrder(ctx context.Context, draft domain.OrderDraft) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentSubmitOrder, ScreenNewOrder)
	if err == nil {
		pending := c.current.(newOrderState).draft
		if strings.TrimSpace(draft.CustomerID) == "" {
			draft.CustomerID = pending.CustomerID
			draft.CustomerName = pending.CustomerName
		}
		draft = services.ResolveDraft(draft, c.catalog)

		if fieldErrs := services.ValidateOrder(draft, c.catalog); len(fieldErrs) > 0 {
			err = errs.Validation(fieldErrs)
		} else {
			now := c.clock.Now()
			eta := c.eta.EstimateDeliveryETA(now)
			order := services.BuildOrder(c.lastOrderID+1, draft, now, &eta)
			if err = c.enter(orderConfirmationState{order: order}); err == nil {
				c.lastOrderID = order.ID
				c.orders = append([]domain.Order{order}, c.orders...)
				c.metrics.IncOrders()
			}
		}
	}
	return c.done(ctx, intentSubmitOrder, from, err)
}

func (c *Controller) CompleteOrderConfirmation(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentCompleteOrder, ScreenOrderConfirmation)
	if err == nil {
		if err = c.enter(mainAppState{}); err == nil {
			c.selected = nil
		}
	}
	return c.done(ctx, intentCompleteOrder, from, err)
}

func (c *Controller) OpenStartRoute(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentOpenStartRoute, ScreenMainApp)
	if err == nil {
		err = c.enter(startRouteState{})
	}
	return c.done(ctx, intentOpenStartRoute, from, err)
}

// StartRouteInput carries what the start-route form collects. Position, when
// known, seeds the route path and the visit distances.
type StartRouteInput struct {
	StartOdometer int
	StartPhoto    domain.PhotoRef
	ShareLocation bool
	Position      *domain.Coordinates
}

func (c *Controller) StartRoute(ctx context.Context, in StartRouteInput) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentStartRoute, ScreenStartRoute)
	if err == nil {
		fieldErrs := map[string]string{}
		if in.StartOdometer <= 0 {
			fieldErrs["start_odometer"] = "Start odometer must be a positive whole number"
		}
		if in.StartPhoto.IsZero() {
			fieldErrs["start_photo"] = "Capture a photo of the odometer before starting"
		}
		if in.Position != nil {
			if perr := in.Position.Validate(); perr != nil {
				fieldErrs["position"] = perr.Error()
			}
		}
		if len(fieldErrs) > 0 {
			err = errs.Validation(fieldErrs)
		}
	}

	var route *domain.Route
	if err == nil {
		now := c.clock.Now()
		route, err = c.newRoute(ctx, in, now)
	}

	if err == nil {
		if err = c.enter(activeRouteState{route: route}); err == nil && route.ShareLocation && route.CurrentPosition != nil {
			c.share(ctx, shareJob{routeID: route.ID, pos: *route.CurrentPosition, at: route.StartTime})
		}
	}
	return c.done(ctx, intentStartRoute, from, err)
}

func (c *Controller) newRoute(ctx context.Context, in StartRouteInput, now time.Time) (*domain.Route, error) {
	var planned []domain.Customer
	if c.schedule != nil {
		var err error
		planned, err = c.schedule.PlannedCustomers(ctx, now)
		if err != nil {
			return nil, errs.Wrap(errs.CodeInternal, fmt.Errorf("start route: planned customers: %w", err), "could not load today's visits")
		}
	}

	route := &domain.Route{
		ID:                 c.newRouteID(),
		StartOdometer:      in.StartOdometer,
		StartOdometerPhoto: in.StartPhoto,
		StartTime:          now,
		ShareLocation:      in.ShareLocation,
		Path:               []domain.Coordinates{},
		Visits:             make([]domain.Visit, 0, len(planned)),
	}
	if c.nearestFirst && in.Position != nil {
		planned = services.OrderVisitsNearestFirst(*in.Position, planned)
	}
	seen := make(map[string]bool, len(planned))
	for _, cu := range planned {
		if seen[cu.ID] {
			continue
		}
		seen[cu.ID] = true
		route.Visits = append(route.Visits, domain.NewVisit(cu))
	}
	if in.Position != nil {
		services.AccumulateGpsSample(route, *in.Position)
	}
	return route, nil
}

// RecordPosition applies one location sample to the active route. Samples
// must arrive in the order they were produced.
func (c *Controller) RecordPosition(ctx context.Context, pos domain.Coordinates) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentRecordPosition, ScreenActiveRoute)
	if err == nil {
		if perr := pos.Validate(); perr != nil {
			err = errs.Validation(map[string]string{"position": perr.Error()})
		}
	}
	if err == nil {
		route := c.current.(activeRouteState).route
		services.AccumulateGpsSample(route, pos)
		c.metrics.IncGPSSamples()
		if route.ShareLocation {
			c.share(ctx, shareJob{routeID: route.ID, pos: pos, at: c.clock.Now()})
		}
	}
	return c.done(ctx, intentRecordPosition, from, err)
}

func (c *Controller) MarkVisited(ctx context.Context, customerID string) (Snapshot, error) {
	return c.markVisit(ctx, intentMarkVisited, customerID, domain.VisitVisited)
}

func (c *Controller) SkipVisit(ctx context.Context, customerID string) (Snapshot, error) {
	return c.markVisit(ctx, intentSkipVisit, customerID, domain.VisitSkipped)
}

func (c *Controller) markVisit(ctx context.Context, intent, customerID string, status domain.VisitStatus) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intent, ScreenActiveRoute)
	if err == nil {
		route := c.current.(activeRouteState).route
		v, ok := route.Visit(strings.TrimSpace(customerID))
		if !ok {
			err = errs.Newf(errs.CodeNotFound, "customer %q is not on this route", customerID)
		} else if merr := v.Mark(status, c.clock.Now()); merr != nil {
			err = errs.Wrap(errs.CodePrecondition, merr, "visit already checked in").
				WithDetails(map[string]string{"customer_id": fmt.Sprintf("Visit is already %s", v.Status)})
		}
	}
	return c.done(ctx, intent, from, err)
}

// RequestEndRoute opens the end-route form. The route keeps running until
// the end reading is confirmed.
func (c *Controller) RequestEndRoute(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentRequestEndRoute, ScreenActiveRoute)
	if err == nil {
		err = c.enter(endRouteState{route: c.current.(activeRouteState).route})
	}
	return c.done(ctx, intentRequestEndRoute, from, err)
}

// SubmitEndRoute closes the route with the end odometer reading and photo and
// shows the summary. The route stays available until FinishRoute.
func (c *Controller) SubmitEndRoute(ctx context.Context, endOdometer int, endPhoto domain.PhotoRef) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentSubmitEndRoute, ScreenEndRoute)
	if err == nil {
		route := c.current.(endRouteState).route
		if endPhoto.IsZero() {
			err = errs.Validation(map[string]string{"end_photo": "Capture a photo of the odometer before ending"})
		} else if eerr := route.End(endOdometer, endPhoto, c.clock.Now()); eerr != nil {
			err = endRouteError(route, eerr)
		}

		if err == nil {
			if err = c.enter(routeSummaryState{route: route}); err == nil {
				c.reportDiscrepancy(ctx, route)
				if route.ShareLocation {
					c.share(ctx, shareJob{routeID: route.ID, stop: true})
				}
			}
		}
	}
	return c.done(ctx, intentSubmitEndRoute, from, err)
}

func endRouteError(route *domain.Route, err error) error {
	switch {
	case errors.Is(err, domain.ErrEndBeforeStart):
		return errs.Wrap(errs.CodePrecondition, err, "end odometer is below the start reading").
			WithDetails(map[string]string{
				"end_odometer": fmt.Sprintf("End odometer must be at least %d", route.StartOdometer),
			})
	case errors.Is(err, domain.ErrMissingPhoto):
		return errs.Validation(map[string]string{"end_photo": "Capture a photo of the odometer before ending"})
	case errors.Is(err, domain.ErrEndTimeBeforeStart):
		return errs.Wrap(errs.CodePrecondition, err, "clock is behind the route start")
	case errors.Is(err, domain.ErrRouteEnded):
		return errs.Wrap(errs.CodeState, err, "route already ended")
	}
	return errs.Wrap(errs.CodeInternal, err, "end route failed")
}

// reportDiscrepancy surfaces a significant difference as a warning. It never
// blocks the route from ending.
func (c *Controller) reportDiscrepancy(ctx context.Context, route *domain.Route) {
	d, ok := services.ComputeDiscrepancy(route)
	if !ok {
		return
	}
	severity := services.ClassifyDiscrepancy(d)
	c.metrics.ObserveRouteEnd(string(severity), d)
	if severity != services.DiscrepancySignificant {
		return
	}
	odo, _ := route.OdometerDistance()
	fields := c.log.WithFields(ctx, map[string]any{
		"route_id":       route.ID,
		"odometer_km":    odo,
		"gps_km":         route.GPSDistance,
		"discrepancy_km": d,
	})
	c.log.Warn(fields, "route distance discrepancy is significant")
}

// FinishRoute drops the ended route and returns to the main screen.
func (c *Controller) FinishRoute(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	err := c.expect(intentFinishRoute, ScreenRouteSummary)
	if err == nil {
		err = c.enter(mainAppState{})
	}
	return c.done(ctx, intentFinishRoute, from, err)
}

// Back leaves the current form without submitting it.
func (c *Controller) Back(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.current.screen()

	var err error
	switch st := c.current.(type) {
	case customerDetailsState:
		if err = c.enter(mainAppState{}); err == nil {
			c.selected = nil
		}
	case newOrderState:
		if c.selected != nil {
			err = c.enter(customerDetailsState{})
		} else {
			err = c.enter(mainAppState{})
		}
	case startRouteState:
		err = c.enter(mainAppState{})
	case endRouteState:
		err = c.enter(activeRouteState{route: st.route})
	default:
		err = errs.Newf(errs.CodeState, "%s not allowed on %s", intentBack, from).
			WithDetails(map[string]string{"screen": string(from), "intent": intentBack})
	}
	return c.done(ctx, intentBack, from, err)
}

// expect rejects an intent unless the flow is on one of the given screens.
func (c *Controller) expect(intent string, screens ...Screen) error {
	cur := c.current.screen()
	for _, s := range screens {
		if cur == s {
			return nil
		}
	}
	return errs.Newf(errs.CodeState, "%s not allowed on %s", intent, cur).
		WithDetails(map[string]string{"screen": string(cur), "intent": intent})
}

// enter moves to next after checking the transition table.
func (c *Controller) enter(next state) error {
	from, to := c.current.screen(), next.screen()
	if !CanTransition(from, to) {
		return errs.Newf(errs.CodeState, "transition %s -> %s not allowed", from, to)
	}
	c.current = next
	return nil
}

// done logs and counts the intent outcome and returns the resulting snapshot.
// Untyped errors are wrapped as internal errors.
func (c *Controller) done(ctx context.Context, intent string, from Screen, err error) (Snapshot, error) {
	fields := c.log.WithFields(ctx, map[string]any{
		"intent": intent,
		"from":   string(from),
		"to":     string(c.current.screen()),
	})
	if err != nil {
		if errs.As(err) == nil {
			err = errs.Wrap(errs.CodeInternal, err, intent+" failed")
		}
		code := errs.CodeOf(err)
		c.log.Info(c.log.WithField(fields, "code", string(code)), "flow.intent rejected: "+err.Error())
		c.metrics.ObserveIntent(intent, string(code))
		return c.snapshotLocked(), err
	}
	c.log.Debug(fields, "flow.intent")
	c.metrics.ObserveIntent(intent, "accepted")
	return c.snapshotLocked(), nil
}

// share queues a sharing job. Callers hold c.mu, which keeps jobs in the
// order intents were applied.
func (c *Controller) share(ctx context.Context, job shareJob) {
	if c.shares == nil {
		return
	}
	c.shares.enqueue(ctx, job)
}
