package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/assetnest/assetnest-backend/api/responses"
	"github.com/assetnest/assetnest-backend/pkg/config"
	"github.com/assetnest/assetnest-backend/pkg/logger"
)

type pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AssetNest-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the dependencies the API cannot serve without.
func HealthReady(cfg *config.Config, logg *logger.Logger, db pinger, cache pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-AssetNest-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = probe(ctx, db)
		checks["redis"] = probe(ctx, cache)
		for name, state := range checks {
			if state != "ok" {
				healthy = false
				logCtx := logg.WithField(ctx, "dependency", name)
				logg.Warn(logCtx, "health.ready.dependency_down")
			}
		}

		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}

func probe(ctx context.Context, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "ok"
}
