// Podsite regenerates the podcast site's static pages from the RSS feed.
//
// One invocation is one full run: every artifact is rewritten and the
// process exits.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/sethvargo/go-envconfig"
	_ "golang.org/x/crypto/x509roots/fallback"

	"github.com/jdholdren/podsite/internal/site"
	"github.com/jdholdren/podsite/logger"
)

type config struct {
	FeedURL      string `env:"FEED_URL, default=https://feeds.castplus.fm/affiliatebi"`
	SiteBaseURL  string `env:"SITE_BASE_URL, default=https://revenueoptimization.io"`
	OutDir       string `env:"OUT_DIR, default=public"`
	SideFilesDir string `env:"SIDE_FILES_DIR, default=public"`
	StatsJSON    string `env:"STATS_JSON, default=public/data/revenue_data_all_sheets_dec_31_2025.json"`
	HomepageMode string `env:"HOMEPAGE_MODE, default=inject"`
	StatsPage    bool   `env:"STATS_PAGE, default=true"`

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

	if err := run(ctx, cfg); err != nil {
		slog.Error("error generating site", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	gen, err := site.NewGenerator(site.Config{
		FeedURL:      cfg.FeedURL,
		SiteBaseURL:  cfg.SiteBaseURL,
		OutDir:       cfg.OutDir,
		SideFilesDir: cfg.SideFilesDir,
		StatsJSON:    cfg.StatsJSON,
		HomepageMode: site.HomepageMode(cfg.HomepageMode),
		StatsPage:    cfg.StatsPage,
	}, http.DefaultClient, nil)
	if err != nil {
		return err
	}

	return gen.Run(ctx)
}
