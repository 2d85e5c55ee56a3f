// Package feed fetches the podcast RSS document and turns its items into episodes.
package feed

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"

	"github.com/jdholdren/podsite/internal/podcast"
)

// ErrNotRSS is returned when the document is a feed, but not an RSS one.
var ErrNotRSS = errors.New("document is not an rss feed")

const itunesNS = "http://www.itunes.com/dtds/podcast-1.0.dtd"

// Fetch downloads the feed. Any non-2xx status is an error; there are no retries.
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating feed request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error getting feed url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	byts, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading feed body: %w", err)
	}

	return byts, nil
}

// Represents the parts of an RSS document that are read.
//
// Item children are kept generic so lookups can apply first-match-wins
// over the element order in the document.
type rssDoc struct {
	XMLName xml.Name `xml:"rss"`
	Channel []struct {
		Items []struct {
			Children []element `xml:",any"`
		} `xml:"item"`
	} `xml:"channel"`
}

type element struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
}

// matches reports whether the element is prefix:local. An empty prefix only
// matches unprefixed elements. The itunes prefix matches whether or not the
// feed declared the namespace.
func (e element) matches(prefix, local string) bool {
	if e.XMLName.Local != local {
		return false
	}

	switch prefix {
	case "":
		return e.XMLName.Space == ""
	case "itunes":
		return e.XMLName.Space == itunesNS || e.XMLName.Space == "itunes"
	default:
		return e.XMLName.Space == prefix
	}
}

func (e element) attr(name string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}

type item []element

// text is the trimmed content of the first prefix:local child, or "".
func (it item) text(prefix, local string) string {
	for _, el := range it {
		if el.matches(prefix, local) {
			return strings.TrimSpace(el.Text)
		}
	}
	return ""
}

// attr is the named attribute of the first prefix:local child carrying it, or "".
func (it item) attr(prefix, local, name string) string {
	for _, el := range it {
		if !el.matches(prefix, local) {
			continue
		}
		if v := el.attr(name); v != "" {
			return v
		}
	}
	return ""
}

// Parse decodes an RSS document into episodes in document order.
//
// Missing item fields come back as empty strings. Only a document that isn't
// RSS, or isn't XML at all, is an error.
func Parse(raw []byte) ([]podcast.Episode, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(raw)) {
	case gofeed.FeedTypeRSS:
	case gofeed.FeedTypeUnknown:
		return nil, errors.New("unrecognized feed document")
	default:
		return nil, ErrNotRSS
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	var doc rssDoc
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error decoding feed: %w", err)
	}

	episodes := []podcast.Episode{}
	for _, channel := range doc.Channel {
		for _, it := range channel.Items {
			episodes = append(episodes, episodeFrom(item(it.Children)))
		}
	}

	return episodes, nil
}

func episodeFrom(it item) podcast.Episode {
	ep := podcast.Episode{
		Title:         it.text("", "title"),
		Description:   stripMarkup(it.text("", "description")),
		PublishedAt:   it.text("", "pubDate"),
		DetailURL:     it.text("", "link"),
		DurationText:  firstNonEmpty(it.text("itunes", "duration"), it.text("", "duration")),
		CoverImageURL: firstNonEmpty(it.attr("itunes", "image", "href"), it.attr("", "image", "href")),
	}

	if u := it.attr("", "enclosure", "url"); u != "" {
		ep.Enclosure = &podcast.Enclosure{
			URL:      u,
			MIMEType: firstNonEmpty(it.attr("", "enclosure", "type"), podcast.DefaultEnclosureType),
		}
	}

	return ep
}

var stripPolicy = bluemonday.StrictPolicy()

// Removes all html tags from a description, leaving readable plain text.
func stripMarkup(s string) string {
	s = stripPolicy.Sanitize(s)
	// The policy re-escapes entities on the way out.
	return strings.TrimSpace(html.UnescapeString(s))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
