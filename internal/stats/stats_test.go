package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshot = `{
  "Sheet1": {
    "Date": "2025-12-31",
    "Downloads": 101381,
    "Spotify Followers": 900, "Spotify Plays": 20000, "Spotify Hours": 3000.4,
    "Apple Podcast Followers": 100, "Apple Podcast Plays": 5000, "Apple Podcast Hours": 800.3, "Apple Podcast Listeners": 1200,
    "YouTube Subscribers": 1000, "YouTube Views": 15000, "YouTube Watchtime Hours": 1200.6,
    "Spotify age 18-22": 0.05, "Spotify age 23-27": 0.2, "Spotify age 28-34": 0.35,
    "Spotify age 35-44": 0.25, "Spotify age 45-59": 0.1, "Spotify age 60+": 0.05,
    "Spotify Male %": 0.8, "Spotify Female %": 0.15, "Spotify Gender Not Defined %": 0.05
  },
  "PreviousSnapshot": {
    "Date": "2025-09-30",
    "Downloads": 90000,
    "Spotify Followers": 800, "Spotify Plays": 20000, "Spotify Hours": 2500,
    "Apple Podcast Followers": 100, "Apple Podcast Plays": 0, "Apple Podcast Hours": 700, "Apple Podcast Listeners": 1000,
    "YouTube Subscribers": 1100, "YouTube Views": 10000, "YouTube Watchtime Hours": 1000
  },
  "Spotify Countries": [
    {"Country": "United States", "Streams": 12000},
    {"Country": "Canada", "Streams": 3000}
  ],
  "Apple Podcast Countries": [
    {"United States": 71},
    {"name": "Canada", "count": 40},
    {"Country": "United Kingdom", "Listeners": "55"},
    {"country": " canada ", "value": 99}
  ],
  "Apple Podcast Cities": [],
  "YouTube ": [
    {"Video title": "Tracking 101", "Video publish time": "2025-03-04", "Views": 4000, "Watch time (hours)": 321.55}
  ]
}`

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeSnapshot(t, `{"Sheet1": [`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSnapshot)
}

func TestChange(t *testing.T) {
	pct, ok := Change(110, 100)
	assert.True(t, ok)
	assert.InDelta(t, 10.0, pct, 0.0001)

	pct, ok = Change(90, 100)
	assert.True(t, ok)
	assert.InDelta(t, -10.0, pct, 0.0001)

	_, ok = Change(100, 0)
	assert.False(t, ok, "no baseline")

	_, ok = Change(100, 100)
	assert.False(t, ok, "no change")
}

func TestNormalizeRanked(t *testing.T) {
	raw := []byte(`[
		{"United States": 71},
		{"name": "Canada", "count": 40},
		{"Country": "United Kingdom", "Listeners": "55"},
		{"country": " canada ", "value": 99},
		{"junk": true}
	]`)

	got := NormalizeRanked(raw)
	assert.Equal(t, []Ranked{
		{Name: "United States", Value: 71},
		{Name: "United Kingdom", Value: 55},
		{Name: "Canada", Value: 40},
	}, got)
}

func TestNormalizeRanked_HeaderRow(t *testing.T) {
	raw := []byte(`[
		{"United States": "Canada", "71": 40},
		{"United States": "Germany", "71": 80},
		{"United States": "Canada", "71": 12}
	]`)

	got := NormalizeRanked(raw)
	assert.Equal(t, []Ranked{
		{Name: "Germany", Value: 80},
		{Name: "United States", Value: 71},
		{Name: "Canada", Value: 40},
	}, got)
}

func TestNormalizeRanked_NotAList(t *testing.T) {
	assert.Empty(t, NormalizeRanked(nil))
	assert.Empty(t, NormalizeRanked([]byte(`{"a": 1}`)))
}

func TestBuild(t *testing.T) {
	s, err := Load(writeSnapshot(t, testSnapshot))
	require.NoError(t, err)

	r := Build(s)
	assert.Equal(t, "December 31, 2025", r.AsOf)
	assert.Equal(t, "Sep 30, 2025", r.ComparedTo)
	assert.Equal(t, 2, r.CountryCount)

	assert.Equal(t, 101381.0, r.Downloads.Value)
	assert.True(t, r.Downloads.HasChange)
	assert.Equal(t, 11381.0, r.Downloads.Delta)

	// 900 + 100 + 1000 against 800 + 100 + 1100: no change, no delta.
	assert.Equal(t, 2000.0, r.Followers.Value)
	assert.False(t, r.Followers.HasChange)
	assert.Zero(t, r.Followers.Delta)

	assert.Equal(t, 40000.0, r.Plays.Value)
	assert.Equal(t, 10000.0, r.Plays.Delta)

	// round(3000.4 + 800.3 + 1200.6) = 5001
	assert.Equal(t, 5001.0, r.Hours.Value)

	require.Len(t, r.Platforms, 3)
	apple := r.Platforms[1]
	assert.Equal(t, "Apple Podcasts", apple.Name)
	assert.False(t, apple.Metrics[0].HasChange, "apple followers never show a change")
	assert.False(t, apple.Metrics[1].HasChange, "previous plays were zero")
	assert.Equal(t, 1201.0, r.Platforms[2].Metrics[2].Value)

	require.Len(t, r.Ages, 6)
	assert.InDelta(t, 35.0, r.Ages[2].Percent, 0.0001)
	assert.InDelta(t, 80.0, r.Gender.Male, 0.0001)

	assert.Equal(t, "United States", r.AppleCountries[0].Name)
	assert.Len(t, r.AppleCountries, 3)
	assert.Empty(t, r.AppleCities)
	require.Len(t, r.Videos, 1)
	assert.Equal(t, "Mar 2025", r.Videos[0].Published)
	assert.Equal(t, "101,381", s.DownloadsText())
}

func TestBuild_NoPrevious(t *testing.T) {
	r := Build(Snapshot{Current: Measurement{Date: "2025-12-31", Downloads: 10}})
	assert.Empty(t, r.ComparedTo)
	assert.False(t, r.Downloads.HasChange)
	assert.Zero(t, r.Downloads.Delta)
	assert.Empty(t, r.AppleCountries)
	assert.Empty(t, r.Videos)
}
