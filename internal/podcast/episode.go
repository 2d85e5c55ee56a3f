// Package podcast holds the episode model and the pure helpers every
// generated artifact derives from it: slugs, display dates, durations and
// neighbor windows.
package podcast

// DefaultEnclosureType is assumed when the feed omits an enclosure's type.
const DefaultEnclosureType = "audio/mpeg"

// Episode is a single item from the podcast feed, in the feed's own terms.
type Episode struct {
	Title       string
	Description string
	// PublishedAt is the feed's raw pubDate text, possibly empty.
	PublishedAt   string
	DetailURL     string
	DurationText  string
	CoverImageURL string
	Enclosure     *Enclosure
}

type Enclosure struct {
	URL      string
	MIMEType string
}

// Slug is the episode's URL path segment and its side-file key.
func (e Episode) Slug() string {
	return Slug(e.Title)
}

// Playable reports whether the episode has audio to link to.
func (e Episode) Playable() bool {
	return e.Enclosure != nil && e.Enclosure.URL != ""
}

// Duration is the display form of DurationText.
func (e Episode) Duration() string {
	return FormatDuration(e.DurationText)
}

// Image returns the cover image, or fallback when the feed didn't supply one.
func (e Episode) Image(fallback string) string {
	if e.CoverImageURL == "" {
		return fallback
	}
	return e.CoverImageURL
}
