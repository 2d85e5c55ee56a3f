package render

import (
	"encoding/xml"
	"fmt"

	"github.com/jdholdren/podsite/internal/podcast"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Top level pages, in the order they're listed.
var staticPages = []struct {
	path       string
	changeFreq string
	priority   string
}{
	{"/", "weekly", "1.0"},
	{"/episodes/", "weekly", "0.9"},
	{"/stats/", "weekly", "0.8"},
	{"/affiliate-tools/", "monthly", "0.7"},
	{"/made-with-lovable/", "monthly", "0.6"},
}

// Sitemap renders sitemap.xml: the static pages, then every episode in feed order.
// An episode's lastmod is its publish date, or today when that's missing or unreadable.
func (r *Renderer) Sitemap(eps []podcast.Episode) ([]byte, error) {
	today := r.now().UTC().Format(podcast.ISODate)

	set := urlSet{XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        r.url(p.path),
			LastMod:    today,
			ChangeFreq: p.changeFreq,
			Priority:   p.priority,
		})
	}

	for _, ep := range eps {
		lastMod := today
		if t, err := podcast.ParseDate(ep.PublishedAt); err == nil {
			lastMod = t.Format(podcast.ISODate)
		}

		set.URLs = append(set.URLs, sitemapURL{
			Loc:        r.url("/ep/" + ep.Slug() + "/"),
			LastMod:    lastMod,
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	byts, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("error marshalling sitemap: %w", err)
	}

	return append([]byte(xml.Header), append(byts, '\n')...), nil
}
