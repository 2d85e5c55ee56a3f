// Package render turns episodes and analytics into the site's static documents.
//
// Every function here is pure: the same inputs and clock give the same bytes.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/jdholdren/podsite/internal/podcast"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Platform is a place the show can be listened to.
type Platform struct {
	Name string
	URL  string
	Icon string
}

// Site is the fixed identity stamped onto every page.
type Site struct {
	BaseURL      string
	Name         string // Short brand, used in the header and og:site_name
	SeriesName   string // Full podcast title
	Tagline      string
	Author       string
	DefaultImage string // Path of the fallback cover image
	AnalyticsID  string // Google Analytics measurement id, empty to disable
	Platforms    []Platform
}

// DefaultSite is the show's identity with the given base URL.
func DefaultSite(baseURL string) Site {
	return Site{
		BaseURL:      baseURL,
		Name:         "Affiliate BI",
		SeriesName:   "Revenue Optimization with StatsDrone",
		Tagline:      "Where affiliate marketing uses data, SEO, and AI to gain the unfair advantage",
		Author:       "John Wright",
		DefaultImage: "/images/podcast-cover.png",
		AnalyticsID:  "G-SPZPNLVSDV",
		Platforms: []Platform{
			{Name: "Spotify", URL: "https://open.spotify.com/show/6by0l9FanqMi9VfNjAMgyV", Icon: "/images/spotify-icon.svg"},
			{Name: "Apple Podcasts", URL: "https://podcasts.apple.com/ca/podcast/affiliate-bi/id1613eeeee", Icon: "/images/apple-podcasts-icon.svg"},
			{Name: "YouTube", URL: "https://www.youtube.com/@affiliatebi", Icon: "/images/youtube-icon.svg"},
		},
	}
}

// Renderer renders documents for one site.
type Renderer struct {
	site Site
	now  func() time.Time
	tmpl *template.Template
}

// New parses the embedded templates. now supplies the copyright year and the
// sitemap's "today"; nil means [time.Now].
func New(site Site, now func() time.Time) (*Renderer, error) {
	if now == nil {
		now = time.Now
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	return &Renderer{
		site: site,
		now:  now,
		tmpl: tmpl,
	}, nil
}

var funcs = template.FuncMap{
	"slug":     podcast.Slug,
	"duration": podcast.FormatDuration,
	"truncate": podcast.Truncate,
	"date": func(s string) string {
		return podcast.FormatDate(s, podcast.LongDate)
	},
	"num":    number,
	"fixed1": oneDecimal,
	"abs":    math.Abs,
	"inc":    func(i int) int { return i + 1 },
	"isodate": func(s string) string {
		t, err := podcast.ParseDate(s)
		if err != nil {
			return ""
		}
		return t.Format(time.RFC3339)
	},
}

// chrome is what the shared header and footer need.
type chrome struct {
	Site   Site
	Year   int
	Active string // Nav entry to highlight
}

func (r *Renderer) chrome(active string) chrome {
	return chrome{
		Site:   r.site,
		Year:   r.now().Year(),
		Active: active,
	}
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("error rendering %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// jsonLD marshals structured data for a ld+json script block. The encoder
// escapes <, > and & so the payload can't close the script element.
func jsonLD(v any) (template.JS, error) {
	byts, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return "", fmt.Errorf("error marshalling structured data: %w", err)
	}

	return template.JS(byts), nil
}

func (r *Renderer) url(path string) string {
	return r.site.BaseURL + path
}
