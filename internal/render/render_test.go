package render

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/podsite/internal/podcast"
	"github.com/jdholdren/podsite/internal/stats"
)

var testNow = time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	r, err := New(DefaultSite("https://podcast.example.com"), func() time.Time { return testNow })
	require.NoError(t, err)
	return r
}

func testEpisodes() []podcast.Episode {
	return []podcast.Episode{
		{
			Title:        "Episode #12: Q&A (Live!)",
			Description:  `Tracking <script>alert("x")</script> & attribution`,
			PublishedAt:  "Tue, 14 Oct 2025 08:00:00 GMT",
			DetailURL:    "https://podcast.example.com/12",
			DurationText: "3725",
			Enclosure:    &podcast.Enclosure{URL: "https://cdn.example.com/12.mp3", MIMEType: "audio/mpeg"},
		},
		{Title: "E1", PublishedAt: "Tue, 07 Oct 2025 08:00:00 GMT"},
		{Title: "E2"},
	}
}

func parse(t *testing.T, byts []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(byts))
	require.NoError(t, err)
	return doc
}

func TestEpisodePage(t *testing.T) {
	r := newTestRenderer(t)
	eps := testEpisodes()

	byts, err := r.EpisodePage(eps[0], nil, eps[1:], Transcript("# Intro\n\n[00:00:01] **Host**: hi"), Socials{Spotify: "https://open.spotify.com/ep/1"})
	require.NoError(t, err)
	doc := parse(t, byts)

	assert.Equal(t, "Episode #12: Q&A (Live!)", doc.Find("h1").Text())
	assert.Equal(t, "https://podcast.example.com/ep/episode-12-qa-live/", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	assert.Equal(t, "https://podcast.example.com/images/podcast-cover.png", doc.Find(`meta[property="og:image"]`).AttrOr("content", ""))
	assert.Equal(t, "https://cdn.example.com/12.mp3", doc.Find("a.play-episode").AttrOr("href", ""))
	assert.Contains(t, doc.Find(".episode-meta").Text(), "October 14, 2025")
	assert.Contains(t, doc.Find(".episode-meta").Text(), "1:02:05")

	// Feed text is escaped, never executed.
	assert.NotContains(t, string(byts), `<script>alert`)
	assert.Contains(t, doc.Find(".episode-about p").Text(), `<script>alert("x")</script>`)

	assert.Equal(t, 1, doc.Find(".episode-transcript h2:contains('Intro')").Length())
	assert.Equal(t, "[00:00:01]", doc.Find(".transcript-content .timestamp").Text())
	assert.Equal(t, 1, doc.Find(`.episode-socials a[title="Listen on Spotify"]`).Length())

	assert.Equal(t, 0, doc.Find(".previous-episodes").Length())
	assert.Equal(t, 2, doc.Find(".next-episodes li").Length())
	assert.Equal(t, "/ep/e1/", doc.Find(".next-episodes a").First().AttrOr("href", ""))

	var ld map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc.Find(`script[type="application/ld+json"]`).Text()), &ld))
	assert.Equal(t, "PodcastEpisode", ld["@type"])
	assert.Equal(t, "Episode #12: Q&A (Live!)", ld["name"])
	assert.NotNil(t, ld["associatedMedia"])
}

func TestEpisodePage_NoEnclosure(t *testing.T) {
	r := newTestRenderer(t)
	ep := podcast.Episode{Title: "Bonus"}

	byts, err := r.EpisodePage(ep, nil, nil, "", Socials{})
	require.NoError(t, err)
	doc := parse(t, byts)

	assert.Equal(t, 0, doc.Find("a.play-episode").Length())
	assert.NotContains(t, string(byts), "Play Episode")
	assert.Equal(t, 0, doc.Find(`meta[property="og:audio"]`).Length())
	assert.Equal(t, 0, doc.Find(".related-episodes").Length())
	assert.Equal(t, 0, doc.Find(".episode-transcript").Length())
	assert.Equal(t, 0, doc.Find(".episode-socials").Length())
}

func TestEpisodeList(t *testing.T) {
	r := newTestRenderer(t)
	eps := testEpisodes()
	eps[1].Description = strings.Repeat("a", 400)

	byts, err := r.EpisodeList(eps)
	require.NoError(t, err)
	doc := parse(t, byts)

	titles := doc.Find(".episode-card .episode-title").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Equal(t, []string{"Episode #12: Q&A (Live!)", "E1", "E2"}, titles)
	assert.Equal(t, 1, doc.Find(".episode-card a.play-episode").Length())
	assert.Len(t, doc.Find(".episode-card .episode-description").Eq(1).Text(), 303)
	assert.Equal(t, 1, doc.Find("#episodeSearch").Length())
	assert.Contains(t, doc.Find("footer").Text(), "2026")
}

func TestEpisodeRedirect(t *testing.T) {
	r := newTestRenderer(t)

	byts, err := r.EpisodeRedirect()
	require.NoError(t, err)
	doc := parse(t, byts)
	assert.Equal(t, "0; url=/episodes/", doc.Find(`meta[http-equiv="refresh"]`).AttrOr("content", ""))
}

func TestHomepage(t *testing.T) {
	r := newTestRenderer(t)

	byts, err := r.Homepage(testEpisodes(), "101,381")
	require.NoError(t, err)
	doc := parse(t, byts)

	assert.Equal(t, "3", doc.Find(".episode-count").Text())
	assert.Contains(t, doc.Text(), "101,381")
	assert.Equal(t, "/ep/episode-12-qa-live/", doc.Find("a.latest-episode-card").AttrOr("href", ""))
}

func TestLatestEpisodeWidget(t *testing.T) {
	r := newTestRenderer(t)

	byts, err := r.LatestEpisodeWidget(testEpisodes(), "")
	require.NoError(t, err)
	doc := parse(t, byts)

	assert.Equal(t, "/ep/episode-12-qa-live/", doc.Find("a.latest-episode-link").AttrOr("href", ""))
	assert.Equal(t, "2025-10-14T08:00:00Z", doc.Find(".latest-episode-time").AttrOr("data-pubdate", ""))
	assert.NotContains(t, doc.Find(".episode-count-badge").Text(), "downloads")

	byts, err = r.LatestEpisodeWidget(nil, "")
	require.NoError(t, err)
	assert.Nil(t, byts)
}

func TestSitemap(t *testing.T) {
	r := newTestRenderer(t)

	byts, err := r.Sitemap(testEpisodes())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(byts, []byte(xml.Header)))

	var set urlSet
	require.NoError(t, xml.Unmarshal(byts, &set))
	require.Len(t, set.URLs, 8)

	assert.Equal(t, "https://podcast.example.com/", set.URLs[0].Loc)
	assert.Equal(t, "1.0", set.URLs[0].Priority)
	assert.Equal(t, "2026-03-05", set.URLs[0].LastMod)
	assert.Equal(t, "https://podcast.example.com/made-with-lovable/", set.URLs[4].Loc)

	assert.Equal(t, "https://podcast.example.com/ep/episode-12-qa-live/", set.URLs[5].Loc)
	assert.Equal(t, "2025-10-14", set.URLs[5].LastMod)
	assert.Equal(t, "monthly", set.URLs[5].ChangeFreq)
	assert.Equal(t, "2026-03-05", set.URLs[7].LastMod, "missing pubDate falls back to today")
}

func TestTranscript(t *testing.T) {
	md := "# Episode 12\n\n## Part <1>\nWelcome & hello\n\n[00:01:02] **Guest**: thanks\nnext line\n\n\n\n*not* `markdown`"

	// Headings stay in the output as their own blocks, with any following
	// lines in the same block rendered as a paragraph.
	got := Transcript(md)
	assert.Equal(t, strings.Join([]string{
		"<h2>Episode 12</h2>",
		"<h3>Part &lt;1&gt;</h3>",
		"<p>Welcome &amp; hello</p>",
		`<p><span class="timestamp">[00:01:02]</span> <strong>Guest</strong>: thanks<br>next line</p>`,
		"<p>*not* `markdown`</p>",
	}, "\n"), string(got))

	assert.Empty(t, Transcript("  \n "))
}

func TestParseSocials(t *testing.T) {
	md := `- [Watch on YouTube](https://youtube.com/watch?v=1)
- [YouTube Shorts](https://youtube.com/shorts/2)
- [Listen on Spotify](https://open.spotify.com/episode/3)
- [Apple Podcasts](https://podcasts.apple.com/4)
- [My blog](https://example.com)`

	assert.Equal(t, Socials{
		YouTube:       "https://youtube.com/watch?v=1",
		Shorts:        "https://youtube.com/shorts/2",
		Spotify:       "https://open.spotify.com/episode/3",
		ApplePodcasts: "https://podcasts.apple.com/4",
	}, ParseSocials(md))

	assert.False(t, ParseSocials("no links here").Any())
}

func TestStatsPage(t *testing.T) {
	r := newTestRenderer(t)
	prev := stats.Measurement{Date: "2025-09-30", Downloads: 1000}
	rep := stats.Build(stats.Snapshot{
		Current:        stats.Measurement{Date: "2025-12-31", Downloads: 1500, Age28to34: 0.5, Age35to44: 0.25, Male: 0.75, Female: 0.25},
		Previous:       &prev,
		AppleCountries: []byte(`[{"United States": 71}, {"name": "Canada", "count": 40}]`),
	})

	byts, err := r.StatsPage(rep)
	require.NoError(t, err)
	doc := parse(t, byts)

	first := doc.Find(".stats-metric").First()
	assert.Equal(t, "1,500", first.Find(".stats-metric-value").Text())
	assert.Equal(t, "↑\u200950.0%", first.Find(".stats-change").Text())
	assert.Equal(t, "+500", first.Find(".stats-delta").Text())

	assert.Equal(t, "width:100%", doc.Find(".stats-bar-fill").Eq(2).AttrOr("style", ""))
	assert.Equal(t, "width:50%", doc.Find(".stats-bar-fill").Eq(3).AttrOr("style", ""))

	apple := doc.Find(".apple-countries .stats-td-name").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Equal(t, []string{"United States", "Canada"}, apple)
	assert.Equal(t, 0, doc.Find(".apple-cities").Length())
	assert.Contains(t, doc.Find(".stats-comparison").Text(), "Sep 30, 2025")
}
