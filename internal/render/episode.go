package render

import (
	"html/template"

	"github.com/jdholdren/podsite/internal/podcast"
)

// Lengths descriptions are cut to.
const (
	metaDescriptionLen = 160
	listDescriptionLen = 300
)

type episodePage struct {
	chrome
	Episode    podcast.Episode
	Canonical  string
	Image      string
	Summary    string
	Prev       []podcast.Episode
	Next       []podcast.Episode
	Transcript template.HTML
	Socials    Socials
	LD         template.JS
}

type seriesLD struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type audioLD struct {
	Type       string `json:"@type"`
	ContentURL string `json:"contentUrl"`
}

type episodeLD struct {
	Context         string   `json:"@context"`
	Type            string   `json:"@type"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	URL             string   `json:"url"`
	DatePublished   string   `json:"datePublished"`
	Duration        string   `json:"duration"`
	Image           string   `json:"image"`
	PartOfSeries    seriesLD `json:"partOfSeries"`
	AssociatedMedia *audioLD `json:"associatedMedia,omitempty"`
}

// EpisodePage renders ep's own page.
//
// prev and next are the neighbor windows; either may be empty, and the
// "More Episodes" block is left out when both are. transcript must come from
// [Transcript] or something equally trusted, it is inserted unescaped.
func (r *Renderer) EpisodePage(ep podcast.Episode, prev, next []podcast.Episode, transcript template.HTML, socials Socials) ([]byte, error) {
	var (
		canonical = r.url("/ep/" + ep.Slug() + "/")
		image     = ep.Image(r.url(r.site.DefaultImage))
		summary   = podcast.Truncate(ep.Description, metaDescriptionLen)
	)

	ld := episodeLD{
		Context:       "https://schema.org",
		Type:          "PodcastEpisode",
		Name:          ep.Title,
		Description:   summary,
		URL:           canonical,
		DatePublished: ep.PublishedAt,
		Duration:      ep.DurationText,
		Image:         image,
		PartOfSeries: seriesLD{
			Type: "PodcastSeries",
			Name: r.site.Name + " Podcast",
			URL:  r.site.BaseURL,
		},
	}
	if ep.Playable() {
		ld.AssociatedMedia = &audioLD{Type: "AudioObject", ContentURL: ep.Enclosure.URL}
	}

	js, err := jsonLD(ld)
	if err != nil {
		return nil, err
	}

	return r.execute("episode", episodePage{
		chrome:     r.chrome(""),
		Episode:    ep,
		Canonical:  canonical,
		Image:      image,
		Summary:    summary,
		Prev:       prev,
		Next:       next,
		Transcript: transcript,
		Socials:    socials,
		LD:         js,
	})
}

type episodeList struct {
	chrome
	Episodes  []podcast.Episode
	Canonical string
	Image     string
}

// EpisodeList renders the episodes index in feed order, with its keyword filter.
func (r *Renderer) EpisodeList(eps []podcast.Episode) ([]byte, error) {
	return r.execute("episodes", episodeList{
		chrome:    r.chrome("episodes"),
		Episodes:  eps,
		Canonical: r.url("/episodes/"),
		Image:     r.url(r.site.DefaultImage),
	})
}

// EpisodeRedirect renders the stub served at /ep/ that sends visitors to the index.
func (r *Renderer) EpisodeRedirect() ([]byte, error) {
	return r.execute("redirect", r.chrome(""))
}
