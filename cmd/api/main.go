package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/paperlane/circulation-backend/api/routes"
	"github.com/paperlane/circulation-backend/internal/dispatches"
	"github.com/paperlane/circulation-backend/internal/distributers"
	"github.com/paperlane/circulation-backend/internal/ledger"
	"github.com/paperlane/circulation-backend/internal/orders"
	"github.com/paperlane/circulation-backend/internal/payments"
	"github.com/paperlane/circulation-backend/internal/push"
	"github.com/paperlane/circulation-backend/internal/users"
	"github.com/paperlane/circulation-backend/pkg/config"
	"github.com/paperlane/circulation-backend/pkg/db"
	"github.com/paperlane/circulation-backend/pkg/fcm"
	"github.com/paperlane/circulation-backend/pkg/logger"
	"github.com/paperlane/circulation-backend/pkg/metrics"
	"github.com/paperlane/circulation-backend/pkg/migrate"
	pkgredis "github.com/paperlane/circulation-backend/pkg/redis"
	"github.com/paperlane/circulation-backend/pkg/sequence"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var sender push.Sender
	if cfg.FCM.Enabled() {
		fcmClient, err := fcm.New(ctx, cfg.FCM)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap fcm", err)
			os.Exit(1)
		}
		sender = fcmClient
	} else {
		logg.Warn(ctx, "fcm credentials absent, push delivery disabled")
	}

	gdb := dbClient.DB()
	distributerRepo := distributers.NewRepository(gdb)
	userRepo := users.NewRepository(gdb)
	orderRepo := orders.NewRepository(gdb)
	ledgerRepo := ledger.NewRepository(gdb)
	dispatchRepo := dispatches.NewRepository(gdb)

	dispatcher := push.NewDispatcher(push.Options{
		Sender:       sender,
		Distributers: distributerRepo,
		Users:        userRepo,
		Logger:       logg,
		Metrics:      metrics.NewPushMetrics(registry),
		SendTimeout:  cfg.Notify.SendTimeout,
	})

	ledgerSvc, err := ledger.NewService(ledgerRepo, distributerRepo)
	if err != nil {
		logg.Error(ctx, "failed to create ledger service", err)
		os.Exit(1)
	}

	orderSvc, err := orders.NewService(orders.Config{
		Repo:         orderRepo,
		Distributers: distributerRepo,
		Users:        userRepo,
		Sequence:     sequence.NewGenerator(gdb),
		Tx:           dbClient,
		Notifier:     dispatcher,
		OrderPrefix:  cfg.Sequence.OrderPrefix,
	})
	if err != nil {
		logg.Error(ctx, "failed to create orders service", err)
		os.Exit(1)
	}

	paymentCoordinator, err := payments.NewCoordinator(orderRepo, ledgerSvc, dbClient, dispatcher)
	if err != nil {
		logg.Error(ctx, "failed to create payment coordinator", err)
		os.Exit(1)
	}

	dispatchSvc, err := dispatches.NewService(dispatches.Config{
		Repo:         dispatchRepo,
		Distributers: distributerRepo,
		Ledger:       ledgerSvc,
		Tx:           dbClient,
		Notifier:     dispatcher,
	})
	if err != nil {
		logg.Error(ctx, "failed to create dispatch service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		DB:           dbClient,
		Redis:        redisClient,
		Idempotency:  redisClient,
		HTTPMetrics:  metrics.NewHTTPMetrics(registry),
		MetricsHTTP:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Orders:       orderSvc,
		Payments:     paymentCoordinator,
		Ledger:       ledgerSvc,
		Dispatches:   dispatchSvc,
		Users:        userRepo,
		Distributers: distributerRepo,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(runCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	cleanupErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if cleanupErr != nil {
		logg.Error(runCtx, "shutdown finished with errors", cleanupErr)
		os.Exit(1)
	}
	logg.Info(runCtx, "api server stopped")
}
