package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/paperlane/circulation-backend/api/responses"
	"github.com/paperlane/circulation-backend/pkg/config"
	"github.com/paperlane/circulation-backend/pkg/db"
	"github.com/paperlane/circulation-backend/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// HealthLive answers liveness probes without touching dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status": "ok",
			"env":    cfg.App.Env,
		})
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthReady checks the database and redis within a bounded window and
// reports per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = "ok"
		if dbP == nil {
			checks["database"] = "not configured"
			healthy = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["database"] = "unavailable"
			healthy = false
			if logg != nil {
				logg.Error(ctx, "readiness: database ping failed", err)
			}
		}

		checks["redis"] = "ok"
		if redisP == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := redisP.Ping(ctx); err != nil {
			checks["redis"] = "unavailable"
			healthy = false
			if logg != nil {
				logg.Error(ctx, "readiness: redis ping failed", err)
			}
		}

		status := http.StatusOK
		state := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"env":    cfg.App.Env,
			"checks": checks,
		})
	}
}
