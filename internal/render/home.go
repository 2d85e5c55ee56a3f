package render

import (
	"html/template"

	"github.com/jdholdren/podsite/internal/podcast"
)

type homePage struct {
	chrome
	Episodes  []podcast.Episode
	Latest    *podcast.Episode
	Downloads string
	Canonical string
	Image     string
	LD        template.JS
}

type authorLD struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

type seriesPageLD struct {
	Context          string   `json:"@context"`
	Type             string   `json:"@type"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	URL              string   `json:"url"`
	Author           authorLD `json:"author"`
	NumberOfEpisodes int      `json:"numberOfEpisodes"`
}

// Homepage renders the full static homepage. downloads is a preformatted
// total and may be empty, in which case the counter is left out.
func (r *Renderer) Homepage(eps []podcast.Episode, downloads string) ([]byte, error) {
	js, err := jsonLD(seriesPageLD{
		Context:          "https://schema.org",
		Type:             "PodcastSeries",
		Name:             r.site.SeriesName,
		Description:      r.site.Tagline,
		URL:              r.site.BaseURL,
		Author:           authorLD{Type: "Person", Name: r.site.Author},
		NumberOfEpisodes: len(eps),
	})
	if err != nil {
		return nil, err
	}

	page := homePage{
		chrome:    r.chrome("home"),
		Episodes:  eps,
		Downloads: downloads,
		Canonical: r.url("/"),
		Image:     r.url(r.site.DefaultImage),
		LD:        js,
	}
	if len(eps) > 0 {
		page.Latest = &eps[0]
	}

	return r.execute("home", page)
}

type widget struct {
	Count     int
	Downloads string
	Latest    podcast.Episode
}

// LatestEpisodeWidget renders the fragment patched into an existing homepage.
// It returns nil when there are no episodes to feature.
func (r *Renderer) LatestEpisodeWidget(eps []podcast.Episode, downloads string) ([]byte, error) {
	if len(eps) == 0 {
		return nil, nil
	}

	return r.execute("widget", widget{
		Count:     len(eps),
		Downloads: downloads,
		Latest:    eps[0],
	})
}
