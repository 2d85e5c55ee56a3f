// Package site runs one full regeneration of the static site from the feed.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sym01/htmlsanitizer"

	"github.com/jdholdren/podsite/internal/feed"
	"github.com/jdholdren/podsite/internal/podcast"
	"github.com/jdholdren/podsite/internal/render"
	"github.com/jdholdren/podsite/internal/stats"
	"github.com/jdholdren/podsite/logger"
)

// Config is everything a run needs to know about where to read and write.
type Config struct {
	FeedURL     string
	SiteBaseURL string
	// OutDir is where artifacts are written.
	OutDir string
	// SideFilesDir holds ep/<slug>/transcript.md and ep/<slug>/socials.md.
	SideFilesDir string
	// StatsJSON is the analytics snapshot, optional.
	StatsJSON    string
	HomepageMode HomepageMode
	StatsPage    bool
}

// Generator regenerates the site. It is not safe for concurrent runs
// against the same OutDir.
type Generator struct {
	cfg       Config
	client    *http.Client
	renderer  *render.Renderer
	homepage  HomepageStrategy
	sanitizer *htmlsanitizer.HTMLSanitizer
}

// NewGenerator builds a generator. now is the clock pages are stamped with,
// nil for [time.Now].
func NewGenerator(cfg Config, client *http.Client, now func() time.Time) (*Generator, error) {
	renderer, err := render.New(render.DefaultSite(cfg.SiteBaseURL), now)
	if err != nil {
		return nil, fmt.Errorf("error creating renderer: %w", err)
	}

	homepage, err := homepageFor(cfg.HomepageMode, renderer, cfg.OutDir)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:       cfg,
		client:    client,
		renderer:  renderer,
		homepage:  homepage,
		sanitizer: htmlsanitizer.NewHTMLSanitizer(),
	}, nil
}

// Run does one regeneration: fetch, parse, then write every artifact.
//
// A failed fetch or write aborts the run. Files already written stay written.
func (g *Generator) Run(ctx context.Context) error {
	ctx = logger.Ctx(ctx, slog.String("run_id", uuid.NewString()))

	slog.InfoContext(ctx, "fetching feed", "url", g.cfg.FeedURL)
	raw, err := feed.Fetch(ctx, g.client, g.cfg.FeedURL)
	if err != nil {
		return fmt.Errorf("error fetching feed: %w", err)
	}

	eps, err := feed.Parse(raw)
	if err != nil {
		return fmt.Errorf("error parsing feed: %w", err)
	}
	slog.InfoContext(ctx, "parsed feed", "episodes", len(eps))

	if err := g.writeEpisodes(ctx, eps); err != nil {
		return err
	}

	redirect, err := g.renderer.EpisodeRedirect()
	if err != nil {
		return err
	}
	if err := g.write(ctx, redirect, "ep", "index.html"); err != nil {
		return err
	}

	list, err := g.renderer.EpisodeList(eps)
	if err != nil {
		return err
	}
	if err := g.write(ctx, list, "episodes", "index.html"); err != nil {
		return err
	}

	sitemap, err := g.renderer.Sitemap(eps)
	if err != nil {
		return err
	}
	if err := g.write(ctx, sitemap, "sitemap.xml"); err != nil {
		return err
	}

	snapshot, haveSnapshot := g.loadSnapshot(ctx)

	downloads := ""
	if haveSnapshot {
		downloads = snapshot.DownloadsText()
	}
	if err := g.homepage.WriteHomepage(ctx, eps, downloads); err != nil {
		return fmt.Errorf("error writing homepage: %w", err)
	}

	if g.cfg.StatsPage && haveSnapshot {
		page, err := g.renderer.StatsPage(stats.Build(snapshot))
		if err != nil {
			return err
		}
		if err := g.write(ctx, page, "stats", "index.html"); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "site generated", "episodes", len(eps), "out_dir", g.cfg.OutDir)
	return nil
}

func (g *Generator) writeEpisodes(ctx context.Context, eps []podcast.Episode) error {
	titles := map[string]string{}
	for i, ep := range eps {
		slug := ep.Slug()
		if prior, ok := titles[slug]; ok {
			slog.WarnContext(ctx, "slug collision, later episode overwrites earlier",
				"slug", slug, "kept", ep.Title, "overwritten", prior)
		}
		titles[slug] = ep.Title

		var (
			epCtx      = logger.Ctx(ctx, slog.String("slug", slug))
			prev, next = podcast.Windows(eps, i, 3)
			transcript = g.transcript(epCtx, slug)
			socials    = g.socials(epCtx, slug)
		)

		page, err := g.renderer.EpisodePage(ep, prev, next, transcript, socials)
		if err != nil {
			return fmt.Errorf("error rendering episode %q: %w", ep.Title, err)
		}
		if err := g.write(epCtx, page, "ep", slug, "index.html"); err != nil {
			return err
		}
	}

	slog.InfoContext(ctx, "wrote episode pages", "count", len(eps))
	return nil
}

// transcript is the episode's rendered transcript, or "" when there isn't one.
func (g *Generator) transcript(ctx context.Context, slug string) template.HTML {
	md, ok := g.sideFile(ctx, slug, "transcript.md")
	if !ok {
		return ""
	}

	clean, err := g.sanitizer.SanitizeString(string(render.Transcript(md)))
	if err != nil {
		slog.WarnContext(ctx, "dropping transcript that failed sanitizing", "error", err)
		return ""
	}

	return template.HTML(clean)
}

func (g *Generator) socials(ctx context.Context, slug string) render.Socials {
	md, ok := g.sideFile(ctx, slug, "socials.md")
	if !ok {
		return render.Socials{}
	}

	return render.ParseSocials(md)
}

// sideFile reads an optional per-episode file. Absence is not an error.
func (g *Generator) sideFile(ctx context.Context, slug, name string) (string, bool) {
	byts, err := os.ReadFile(filepath.Join(g.cfg.SideFilesDir, "ep", slug, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false
	}
	if err != nil {
		slog.WarnContext(ctx, "error reading side file", "file", name, "error", err)
		return "", false
	}

	slog.DebugContext(ctx, "found side file", "file", name)
	return string(byts), true
}

func (g *Generator) loadSnapshot(ctx context.Context) (stats.Snapshot, bool) {
	if g.cfg.StatsJSON == "" {
		return stats.Snapshot{}, false
	}

	snapshot, err := stats.Load(g.cfg.StatsJSON)
	if errors.Is(err, stats.ErrNoSnapshot) {
		slog.WarnContext(ctx, "stats snapshot not found, skipping", "path", g.cfg.StatsJSON)
		return stats.Snapshot{}, false
	}
	if err != nil {
		slog.WarnContext(ctx, "error loading stats snapshot, skipping", "path", g.cfg.StatsJSON, "error", err)
		return stats.Snapshot{}, false
	}

	return snapshot, true
}

func (g *Generator) write(ctx context.Context, data []byte, elem ...string) error {
	path := filepath.Join(append([]string{g.cfg.OutDir}, elem...)...)
	if err := writeFile(path, data); err != nil {
		return err
	}

	slog.DebugContext(ctx, "wrote file", "path", path)
	return nil
}
