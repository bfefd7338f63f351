package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"field-workflow-service/internal/adapters/catalog"
	"field-workflow-service/internal/adapters/schedule"
	"field-workflow-service/internal/adapters/share"
	"field-workflow-service/internal/api"
	"field-workflow-service/internal/config"
	"field-workflow-service/internal/flow"
	"field-workflow-service/internal/platform/db"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/platform/metrics"
	"field-workflow-service/internal/ports"
	"field-workflow-service/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// main is the application composition root.
// It wires concrete adapters (catalog source, schedule, Redis sharing) behind
// ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "field-workflow-service",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	source, closeSource, err := openCatalogSource(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	cat, err := source.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("run: load catalog: %w", err)
	}

	sched, err := schedule.NewStaticSchedule(cat, cfg.Route.PlannedCustomers)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []flow.Option{
		flow.WithLogger(log),
		flow.WithMetrics(metrics.NewFlowMetrics(reg)),
		flow.WithSchedule(sched),
		flow.WithETAEstimator(services.NewRandomETAEstimator(cfg.Orders.ETAMinDays, cfg.Orders.ETAMaxDays)),
	}
	if cfg.Route.LegacyCameraGrant {
		opts = append(opts, flow.WithLegacyCameraGrant())
	}
	if cfg.Route.VisitOrder == config.VisitOrderNearest {
		opts = append(opts, flow.WithNearestVisitOrder())
	}

	var positions ports.SharedPositionReader
	if cfg.Redis.URL != "" {
		client, err := share.Dial(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		defer client.Close()
		sharer := share.NewRedisLocationSharer(client, cfg.Redis.ShareTTL)
		opts = append(opts, flow.WithLocationSharer(sharer))
		positions = sharer
		log.Info(ctx, "live location sharing enabled")
	}

	// Closed before the redis client so queued share jobs still reach it.
	ctrl := flow.NewController(cat, opts...)
	defer ctrl.Close()
	router := api.NewRouter(api.Deps{
		Flow:           ctrl,
		Positions:      positions,
		Log:            log,
		HTTPMetrics:    metrics.NewHTTPMetrics(reg),
		Gatherer:       reg,
		AllowedOrigins: cfg.App.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.WithField(ctx, "addr", srv.Addr), "server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("run: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info(ctx, "shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("run: shutdown: %w", err)
	}
	return nil
}

// openCatalogSource picks the configured catalog backend. The returned
// close func is always safe to call.
func openCatalogSource(ctx context.Context, cfg *config.Config, log *logger.Logger) (ports.CatalogSource, func(), error) {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		return catalog.NewJSONCatalog(cfg.Catalog.Path, log), func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.Catalog.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("openCatalogSource: %w", err)
	}
	closeDB := func() { _ = conn.Close() }

	if err := db.Migrate(ctx, conn); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("openCatalogSource: %w", err)
	}
	return catalog.NewPostgresCatalog(conn, log), closeDB, nil
}
