package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/minishop/api/responses"
	"github.com/angelmondragon/minishop/pkg/config"
	pkgerrors "github.com/angelmondragon/minishop/pkg/errors"
	"github.com/angelmondragon/minishop/pkg/logger"
	pkgredis "github.com/angelmondragon/minishop/pkg/redis"
)

const (
	envHeader    = "X-Minishop-Env"
	readyTimeout = 2 * time.Second
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings redis when one is wired; a nil pinger is always ready.
func HealthReady(cfg *config.Config, redis pkgredis.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
