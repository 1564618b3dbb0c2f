package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/fillytrckr-backend/api/responses"
	"github.com/angelmondragon/fillytrckr-backend/pkg/config"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/fillytrckr-backend/pkg/errors"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
)

const (
	envHeader    = "X-Filly-Env"
	readyTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		ctx := r.Context()

		if dbP == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}

		pingCtx, cancel := context.WithTimeout(ctx, readyTimeout)
		defer cancel()
		if err := dbP.Ping(pingCtx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable").
				WithDetails(map[string]string{"dependency": "database"}))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
