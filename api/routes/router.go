package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paperlane/circulation-backend/api/controllers"
	"github.com/paperlane/circulation-backend/api/middleware"
	"github.com/paperlane/circulation-backend/internal/dispatches"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/internal/ledger"
	"github.com/paperlane/circulation-backend/internal/orders"
	"github.com/paperlane/circulation-backend/internal/payments"
	"github.com/paperlane/circulation-backend/internal/users"
	"github.com/paperlane/circulation-backend/pkg/config"
	"github.com/paperlane/circulation-backend/pkg/db"
	"github.com/paperlane/circulation-backend/pkg/logger"
	"github.com/paperlane/circulation-backend/pkg/metrics"
	pkgredis "github.com/paperlane/circulation-backend/pkg/redis"
)

type redisPinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       redisPinger
	Idempotency pkgredis.IdempotencyStore
	HTTPMetrics *metrics.HTTPMetrics
	MetricsHTTP http.Handler

	Orders       orders.Service
	Payments     payments.Coordinator
	Ledger       ledger.Service
	Dispatches   dispatches.Service
	Users        users.Repository
	Distributers distributers.Repository
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	metricsHandler := deps.MetricsHTTP
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(deps.Idempotency, cfg.Notify.IdempotencyTTL, logg),
		)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.GetOrder(deps.Orders, logg))
				r.Patch("/status", controllers.UpdateOrderStatus(deps.Orders, logg))
				r.Patch("/payment", controllers.UpdateOrderPayment(deps.Payments, logg))
				r.With(middleware.RequireAdmin(logg)).
					Patch("/assignee", controllers.ReassignOrder(deps.Orders, logg))
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(deps.Ledger, logg))
			r.Get("/summary", controllers.TransactionSummary(deps.Ledger, logg))
		})

		r.Route("/dispatches", func(r chi.Router) {
			r.Post("/", controllers.RecordDispatch(deps.Dispatches, logg))
			r.Get("/", controllers.ListDispatches(deps.Dispatches, logg))
			r.Get("/today", controllers.ListTodayDispatches(deps.Dispatches, logg))
		})

		r.Route("/devices", func(r chi.Router) {
			r.Put("/token", controllers.RegisterDeviceToken(deps.Users, deps.Distributers, logg))
			r.Delete("/token", controllers.RemoveDeviceToken(deps.Users, deps.Distributers, logg))
		})
	})

	return r
}
