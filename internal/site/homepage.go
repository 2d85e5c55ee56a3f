package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jdholdren/podsite/internal/podcast"
	"github.com/jdholdren/podsite/internal/render"
)

// HomepageMode picks what a run does with the homepage.
type HomepageMode string

const (
	// HomepageInject patches the latest episode into an existing index.html.
	HomepageInject HomepageMode = "inject"
	// HomepageStatic writes a complete static-index.html.
	HomepageStatic HomepageMode = "static"
	// HomepageNone leaves the homepage alone.
	HomepageNone HomepageMode = "none"
)

// Placeholder is replaced by the latest episode widget in inject mode.
const Placeholder = "<!-- LATEST_EPISODE_PLACEHOLDER -->"

// HomepageStrategy is the homepage step of a run.
type HomepageStrategy interface {
	WriteHomepage(ctx context.Context, eps []podcast.Episode, downloads string) error
}

func homepageFor(mode HomepageMode, r *render.Renderer, outDir string) (HomepageStrategy, error) {
	switch mode {
	case HomepageInject, "":
		return injectHomepage{renderer: r, path: filepath.Join(outDir, "index.html")}, nil
	case HomepageStatic:
		return staticHomepage{renderer: r, path: filepath.Join(outDir, "static-index.html")}, nil
	case HomepageNone:
		return noHomepage{}, nil
	default:
		return nil, fmt.Errorf("unknown homepage mode %q", mode)
	}
}

type injectHomepage struct {
	renderer *render.Renderer
	path     string
}

// WriteHomepage replaces the first placeholder in the existing homepage.
// A missing homepage, a missing placeholder or an empty feed leave it untouched.
func (h injectHomepage) WriteHomepage(ctx context.Context, eps []podcast.Episode, downloads string) error {
	if len(eps) == 0 {
		return nil
	}

	page, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.InfoContext(ctx, "no homepage to inject into", "path", h.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading homepage: %w", err)
	}

	if !bytes.Contains(page, []byte(Placeholder)) {
		slog.InfoContext(ctx, "homepage has no placeholder", "path", h.path)
		return nil
	}

	widget, err := h.renderer.LatestEpisodeWidget(eps, downloads)
	if err != nil {
		return err
	}

	page = bytes.Replace(page, []byte(Placeholder), widget, 1)
	if err := writeFile(h.path, page); err != nil {
		return err
	}

	slog.InfoContext(ctx, "injected latest episode", "title", eps[0].Title, "episodes", len(eps))
	return nil
}

type staticHomepage struct {
	renderer *render.Renderer
	path     string
}

func (h staticHomepage) WriteHomepage(ctx context.Context, eps []podcast.Episode, downloads string) error {
	page, err := h.renderer.Homepage(eps, downloads)
	if err != nil {
		return err
	}

	if err := writeFile(h.path, page); err != nil {
		return err
	}

	slog.InfoContext(ctx, "wrote static homepage", "path", h.path)
	return nil
}

type noHomepage struct{}

func (noHomepage) WriteHomepage(context.Context, []podcast.Episode, string) error {
	return nil
}
