package api

import (
	"net/http"

	"field-workflow-service/internal/api/handlers"
	"field-workflow-service/internal/flow"
	"field-workflow-service/internal/platform/logger"
	"field-workflow-service/internal/platform/metrics"
	"field-workflow-service/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer needs. Gatherer may be nil, in
// which case /metrics is not mounted. Without Positions the shared-position
// endpoint answers CAPABILITY_UNAVAILABLE.
type Deps struct {
	Flow           *flow.Controller
	Positions      ports.SharedPositionReader
	Log            *logger.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware(log))
	r.Use(loggingMiddleware(log, deps.HTTPMetrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(deps.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	health := &handlers.HealthHandler{Log: log}
	flowHandler := &handlers.FlowHandler{Flow: deps.Flow, Positions: deps.Positions, Log: log}
	catalogHandler := &handlers.CatalogHandler{Flow: deps.Flow, Log: log}

	r.Get("/health", health.Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", flowHandler.State)
		r.Post("/back", flowHandler.Back)
		r.Post("/onboarding/{step}", flowHandler.OnboardingStep)
		r.Post("/permissions", flowHandler.RecordPermission)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/customers", catalogHandler.Customers)
			r.Get("/customers/{customerID}", catalogHandler.Customer)
			r.Get("/customers/{customerID}/orders", catalogHandler.CustomerOrders)
			r.Get("/products", catalogHandler.Products)
		})

		r.Post("/customers/{customerID}/select", flowHandler.SelectCustomer)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", flowHandler.SubmitOrder)
			r.Post("/draft", flowHandler.BeginOrder)
			r.Post("/confirmation/complete", flowHandler.CompleteConfirmation)
		})

		r.Route("/route", func(r chi.Router) {
			r.Post("/open", flowHandler.OpenStartRoute)
			r.Post("/start", flowHandler.StartRoute)
			r.Post("/positions", flowHandler.RecordPosition)
			r.Get("/shared-position", flowHandler.SharedPosition)
			r.Post("/visits/{customerID}/visit", flowHandler.MarkVisited)
			r.Post("/visits/{customerID}/skip", flowHandler.SkipVisit)
			r.Post("/end/request", flowHandler.RequestEndRoute)
			r.Post("/end", flowHandler.EndRoute)
			r.Post("/finish", flowHandler.FinishRoute)
		})
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
