// Package stats reads the analytics snapshot exported for the podcast and
// derives the numbers the stats dashboard and API show.
package stats

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
)

// ErrNoSnapshot is returned by [Load] when there is no snapshot file.
var ErrNoSnapshot = errors.New("no analytics snapshot")

// Measurement is one point-in-time read of every platform's totals.
// Keys are the export's column headers.
type Measurement struct {
	Date      text    `json:"Date"`
	Downloads float64 `json:"Downloads"`

	SpotifyFollowers float64 `json:"Spotify Followers"`
	SpotifyPlays     float64 `json:"Spotify Plays"`
	SpotifyHours     float64 `json:"Spotify Hours"`

	AppleFollowers float64 `json:"Apple Podcast Followers"`
	ApplePlays     float64 `json:"Apple Podcast Plays"`
	AppleHours     float64 `json:"Apple Podcast Hours"`
	AppleListeners float64 `json:"Apple Podcast Listeners"`

	YouTubeSubscribers float64 `json:"YouTube Subscribers"`
	YouTubeViews       float64 `json:"YouTube Views"`
	YouTubeWatchHours  float64 `json:"YouTube Watchtime Hours"`

	// Spotify audience shares, as fractions of 1.
	Age18to22     float64 `json:"Spotify age 18-22"`
	Age23to27     float64 `json:"Spotify age 23-27"`
	Age28to34     float64 `json:"Spotify age 28-34"`
	Age35to44     float64 `json:"Spotify age 35-44"`
	Age45to59     float64 `json:"Spotify age 45-59"`
	Age60Plus     float64 `json:"Spotify age 60+"`
	Male          float64 `json:"Spotify Male %"`
	Female        float64 `json:"Spotify Female %"`
	GenderUnknown float64 `json:"Spotify Gender Not Defined %"`
}

type SpotifyCountry struct {
	Country string  `json:"Country"`
	Streams float64 `json:"Streams"`
}

type YouTubeVideo struct {
	Title       string  `json:"Video title"`
	PublishedAt text    `json:"Video publish time"`
	Views       float64 `json:"Views"`
	WatchHours  float64 `json:"Watch time (hours)"`
}

// Snapshot is the whole analytics export.
type Snapshot struct {
	Current          Measurement      `json:"Sheet1"`
	Previous         *Measurement     `json:"PreviousSnapshot"`
	SpotifyCountries []SpotifyCountry `json:"Spotify Countries"`
	// The Apple lists don't have stable keys, see [NormalizeRanked].
	AppleCountries json.RawMessage `json:"Apple Podcast Countries"`
	AppleCities    json.RawMessage `json:"Apple Podcast Cities"`
	// The export really does name this sheet with a trailing space.
	YouTubeVideos []YouTubeVideo `json:"YouTube "`
}

// Load reads the snapshot at path.
func Load(path string) (Snapshot, error) {
	byts, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("error reading snapshot: %w", err)
	}

	var s Snapshot
	if err := json.Unmarshal(byts, &s); err != nil {
		return Snapshot{}, fmt.Errorf("error decoding snapshot: %w", err)
	}

	return s, nil
}

// DownloadsText is the current download total with thousands separators,
// or "" when the snapshot has none.
func (s Snapshot) DownloadsText() string {
	if s.Current.Downloads <= 0 {
		return ""
	}

	return humanize.Comma(int64(s.Current.Downloads))
}

// text accepts either a JSON string or a number, spreadsheets export dates as both.
type text string

func (t *text) UnmarshalJSON(byts []byte) error {
	var s string
	if err := json.Unmarshal(byts, &s); err == nil {
		*t = text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(byts, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*t = text(n.String())
	return nil
}

// parseNumber reads s as a number, allowing thousands separators.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(stripCommas(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
