package controllers

import (
	"context"
	"net/http"

	"github.com/akinleyeOJ/culturer-backend/api/responses"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive always succeeds while the process is up.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady checks the hard dependencies. Optional dependencies (redis,
// pubsub, gcs) are reported but do not fail readiness.
func HealthReady(db Pinger, optional map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if db == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "database unavailable"))
			return
		}
		if err := db.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		checks := map[string]string{"database": "ok"}
		for name, dep := range optional {
			if dep == nil {
				checks[name] = "disabled"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "degraded"
				if logg != nil {
					lctx := logg.WithField(ctx, "dependency", name)
					logg.Warn(lctx, "readiness dependency degraded")
				}
				continue
			}
			checks[name] = "ok"
		}

		responses.WriteSuccess(w, checks)
	}
}
