// Pollapi serves the site's poll votes and analytics report.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sethvargo/go-envconfig"
	"go.uber.org/fx"

	"github.com/jdholdren/podsite/internal/api"
	"github.com/jdholdren/podsite/internal/poll"
	"github.com/jdholdren/podsite/internal/redisstore"
	"github.com/jdholdren/podsite/internal/sqlite"
	"github.com/jdholdren/podsite/logger"
)

type config struct {
	Port       int    `env:"PORT, default=8788"`
	CorsOrigin string `env:"CORS_ORIGIN, default=https://revenueoptimization.io"`
	StatsJSON  string `env:"STATS_JSON, default=public/data/revenue_data_all_sheets_dec_31_2025.json"`

	// Which store keeps the votes: sqlite or redis
	Store         string `env:"STORE, default=sqlite"`
	Database      string `env:"DATABASE, default=polls.db"`
	RedisAddr     string `env:"REDIS_ADDR, default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB, default=0"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(os.Stderr, cfg.LoggerFormat))

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("error opening store: %s", err)
	}
	defer closeStore()

	// Start the application
	fx.New(
		fx.Supply(
			api.ServerConfig{
				Port:       cfg.Port,
				CorsOrigin: cfg.CorsOrigin,
				StatsJSON:  cfg.StatsJSON,
			},
			fx.Annotate(store, fx.As(new(poll.Store))),
		),
		api.Module,
		fx.Invoke(func(*api.Server) {}), // Start the API server
	).Run()
}

func openStore(ctx context.Context, cfg config) (poll.Store, func(), error) {
	switch cfg.Store {
	case "sqlite":
		dbx, err := sqlite.Open(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.New(dbx), func() { dbx.Close() }, nil
	case "redis":
		client, err := redisstore.Dial(ctx, redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.New(client), func() { client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
