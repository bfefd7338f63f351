package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"field-workflow-service/internal/adapters/catalog"
	"field-workflow-service/internal/adapters/device"
	"field-workflow-service/internal/adapters/schedule"
	"field-workflow-service/internal/config"
	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/flow"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/ports"
	"field-workflow-service/internal/services"

	"github.com/shopspring/decimal"
)

const startOdometer = 12345

// fieldsim plays a scripted field day against the flow controller using the
// mock device adapters and prints the route summary and orders as JSON.
func main() {
	log := logger.New(logger.Options{
		ServiceName: "fieldsim",
		Level:       logger.ParseLevel(config.Get("FIELDFLOW_LOG_LEVEL", "info")),
		Format:      "console",
		Output:      os.Stderr,
	})
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "simulation failed", err)
		os.Exit(1)
	}
}

type report struct {
	Summary *services.RouteSummary `json:"summary"`
	Orders  []domain.Order         `json:"orders"`
}

func run(ctx context.Context, log *logger.Logger) error {
	cat, err := catalog.NewJSONCatalog(config.Get("FIELDFLOW_CATALOG_PATH", "data/seeds/catalog.json"), log).LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	planned := strings.Split(config.Get("FIELDFLOW_PLANNED_CUSTOMERS", "1,2,3"), ",")
	sched, err := schedule.NewStaticSchedule(cat, planned)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	stops, err := sched.PlannedCustomers(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if len(stops) == 0 {
		return fmt.Errorf("run: no planned customers")
	}

	now := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	ctrl := flow.NewController(cat,
		flow.WithLogger(log),
		flow.WithClock(ports.ClockFunc(func() time.Time { return now })),
		flow.WithSchedule(sched),
	)
	defer ctrl.Close()

	samples := make([]domain.Coordinates, 0, len(stops))
	for _, c := range stops {
		samples = append(samples, c.Coordinates)
	}
	host := flow.NewHost(ctrl,
		device.NewStaticPermissionPrompt(map[domain.PermissionKind]bool{
			domain.PermissionNotifications: true,
			domain.PermissionLocation:      true,
			domain.PermissionCamera:        true,
		}),
		device.NewMockCamera(),
		device.NewReplayLocationProvider(&samples[0], samples, 0),
		log,
	)

	if _, err := host.RunOnboarding(ctx); err != nil {
		return fmt.Errorf("run: onboarding: %w", err)
	}

	customer := stops[0]
	if _, err := ctrl.SelectCustomer(ctx, customer.ID); err != nil {
		return fmt.Errorf("run: select customer: %w", err)
	}
	if _, err := ctrl.BeginNewOrder(ctx, customer.ID); err != nil {
		return fmt.Errorf("run: begin order: %w", err)
	}
	products := cat.Products()
	if len(products) == 0 {
		return fmt.Errorf("run: catalog has no products")
	}
	if _, err := host.SubmitOrder(ctx, domain.OrderDraft{
		CustomerID:    customer.ID,
		Product:       products[0].ID,
		Quantity:      2,
		Price:         decimal.Zero,
		PaymentMethod: domain.PaymentCash,
	}); err != nil {
		return fmt.Errorf("run: submit order: %w", err)
	}
	if _, err := ctrl.CompleteOrderConfirmation(ctx); err != nil {
		return fmt.Errorf("run: confirm order: %w", err)
	}

	if _, err := ctrl.OpenStartRoute(ctx); err != nil {
		return fmt.Errorf("run: open route: %w", err)
	}
	if _, err := host.StartRoute(ctx, startOdometer, false); err != nil {
		return fmt.Errorf("run: start route: %w", err)
	}
	if err := host.TrackRoute(ctx); err != nil {
		return fmt.Errorf("run: track route: %w", err)
	}

	for i, c := range stops {
		now = now.Add(40 * time.Minute)
		visit := ctrl.MarkVisited
		if i == len(stops)-1 && len(stops) > 1 {
			visit = ctrl.SkipVisit
		}
		if _, err := visit(ctx, c.ID); err != nil {
			return fmt.Errorf("run: check in %s: %w", c.ID, err)
		}
	}

	now = now.Add(20 * time.Minute)
	snap, err := ctrl.RequestEndRoute(ctx)
	if err != nil {
		return fmt.Errorf("run: request end: %w", err)
	}
	endOdometer := startOdometer + int(math.Ceil(snap.ActiveRoute.GPSDistance))
	snap, err = host.EndRoute(ctx, endOdometer)
	if err != nil {
		return fmt.Errorf("run: end route: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report{Summary: snap.RouteProgress.Summary, Orders: snap.CommittedOrders}); err != nil {
		return fmt.Errorf("run: write report: %w", err)
	}

	_, err = ctrl.FinishRoute(ctx)
	return err
}
