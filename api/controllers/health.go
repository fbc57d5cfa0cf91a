package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/medimart/medimart-backend/api/responses"
	"github.com/medimart/medimart-backend/pkg/logger"
)

// Pinger is a dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports process liveness plus the state of each backing
// dependency. The endpoint stays 200 even when a dependency is down so
// orchestrators can tell "degraded" from "dead".
func Health(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "disabled"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				if logg != nil {
					logg.Error(ctx, "healthcheck dependency failure: "+name, err)
				}
				continue
			}
			checks[name] = "up"
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "ok",
			"checks": checks,
		})
	}
}
