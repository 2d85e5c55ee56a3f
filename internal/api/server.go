package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/fx"

	"github.com/jdholdren/podsite/internal/poll"
	"github.com/jdholdren/podsite/internal/serverutil"
	"github.com/jdholdren/podsite/internal/stats"
)

type (
	// Server serves poll votes and the normalized analytics report.
	Server struct {
		*http.Server

		store     poll.Store
		statsPath string
		// Reports keyed by the snapshot's modification time, so a new export
		// is picked up without a restart.
		reports *lru.Cache[time.Time, stats.Report]
	}

	ServerConfig struct {
		Port int
		// CorsOrigin is the site allowed to call the API from a browser.
		CorsOrigin string
		StatsJSON  string
	}

	Params struct {
		fx.In

		Config ServerConfig
		Store  poll.Store
	}
)

func NewServer(config ServerConfig, store poll.Store) *Server {
	var (
		r        = serverutil.ErrRouter{Router: mux.NewRouter()}
		cache, _ = lru.New[time.Time, stats.Report](4)
	)

	srvr := Server{
		store:     store,
		statsPath: config.StatsJSON,
		reports:   cache,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.Use(serverutil.NoCacheMiddleware)

	r.HandleFuncE("/api/poll", srvr.getPoll).Methods(http.MethodGet)
	r.HandleFuncE("/api/poll", srvr.postPoll).Methods(http.MethodPost)
	r.HandleFuncE("/api/stats", srvr.getStats).Methods(http.MethodGet)

	slog.Debug("configured api server", "port", config.Port)

	return &srvr
}

// newLifecycleServer ties the server to the fx app's start and stop.
func newLifecycleServer(lc fx.Lifecycle, p Params) *Server {
	srvr := NewServer(p.Config, p.Store)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srvr.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("api server stopped", "error", err)
				}
			}()

			slog.Info("started api server", "addr", srvr.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srvr.Shutdown(ctx)
		},
	})

	return srvr
}
