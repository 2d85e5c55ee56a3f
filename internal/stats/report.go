package stats

import (
	"math"

	"github.com/jdholdren/podsite/internal/podcast"
)

// TopN is how many entries each ranked table keeps.
const TopN = 10

// Metric is a number with its change against the previous snapshot.
type Metric struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Change is the percent change. It is only meaningful when HasChange is set.
	Change    float64 `json:"change"`
	HasChange bool    `json:"hasChange"`
	// Delta is the absolute growth, zero unless positive.
	Delta float64 `json:"delta,omitempty"`
}

type Platform struct {
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Metrics []Metric `json:"metrics"`
}

type Share struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

type Gender struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
	Other  float64 `json:"other"`
}

type Video struct {
	Title      string  `json:"title"`
	Published  string  `json:"published"`
	Views      float64 `json:"views"`
	WatchHours float64 `json:"watchHours"`
}

// Report is everything the dashboard shows, already aggregated and ranked.
type Report struct {
	AsOf         string `json:"asOf"`
	ComparedTo   string `json:"comparedTo,omitempty"`
	CountryCount int    `json:"countryCount"`

	Downloads Metric `json:"downloads"`
	Followers Metric `json:"followers"`
	Plays     Metric `json:"plays"`
	Hours     Metric `json:"hours"`

	Platforms []Platform `json:"platforms"`
	Ages      []Share    `json:"ages"`
	Gender    Gender     `json:"gender"`

	SpotifyCountries []Ranked `json:"spotifyCountries"`
	AppleCountries   []Ranked `json:"appleCountries"`
	AppleCities      []Ranked `json:"appleCities"`
	Videos           []Video  `json:"videos"`
}

// Change is the percent change from prev to cur. ok is false when there's no
// baseline to compare against or nothing changed.
func Change(cur, prev float64) (pct float64, ok bool) {
	if prev == 0 {
		return 0, false
	}

	pct = (cur - prev) / prev * 100
	if pct == 0 {
		return 0, false
	}
	return pct, true
}

func followers(m Measurement) float64 {
	return m.SpotifyFollowers + m.AppleFollowers + m.YouTubeSubscribers
}

func plays(m Measurement) float64 {
	return m.SpotifyPlays + m.ApplePlays + m.YouTubeViews
}

func hours(m Measurement) float64 {
	return math.Round(m.SpotifyHours + m.AppleHours + m.YouTubeWatchHours)
}

// Build aggregates a snapshot into a report.
func Build(s Snapshot) Report {
	var (
		cur  = s.Current
		prev = s.Previous
	)

	// metric compares against the previous snapshot when there is one.
	metric := func(label string, value func(Measurement) float64, withDelta, withChange bool) Metric {
		m := Metric{Label: label, Value: value(cur)}
		if prev == nil {
			return m
		}

		p := value(*prev)
		if withChange {
			m.Change, m.HasChange = Change(m.Value, p)
		}
		if d := m.Value - p; withDelta && d > 0 {
			m.Delta = d
		}
		return m
	}

	r := Report{
		AsOf:         podcast.FormatDate(string(cur.Date), podcast.LongDate),
		CountryCount: len(s.SpotifyCountries),

		Downloads: metric("Total Downloads", func(m Measurement) float64 { return m.Downloads }, true, true),
		Followers: metric("Followers", followers, true, true),
		Plays:     metric("Total Plays", plays, true, true),
		Hours:     metric("Watch Hours", hours, true, true),

		Platforms: []Platform{
			{
				Name:  "Spotify",
				Color: "#1DB954",
				Metrics: []Metric{
					metric("Followers", func(m Measurement) float64 { return m.SpotifyFollowers }, false, true),
					metric("Plays", func(m Measurement) float64 { return m.SpotifyPlays }, false, true),
					metric("Hours", func(m Measurement) float64 { return m.SpotifyHours }, false, true),
				},
			},
			{
				Name:  "Apple Podcasts",
				Color: "#D56DFB",
				Metrics: []Metric{
					metric("Followers", func(m Measurement) float64 { return m.AppleFollowers }, false, false),
					metric("Plays", func(m Measurement) float64 { return m.ApplePlays }, false, true),
					metric("Hours", func(m Measurement) float64 { return m.AppleHours }, false, true),
					metric("Listeners", func(m Measurement) float64 { return m.AppleListeners }, false, true),
				},
			},
			{
				Name:  "YouTube",
				Color: "#FF0000",
				Metrics: []Metric{
					metric("Subscribers", func(m Measurement) float64 { return m.YouTubeSubscribers }, false, true),
					metric("Views", func(m Measurement) float64 { return m.YouTubeViews }, false, true),
					metric("Watch Hours", func(m Measurement) float64 { return math.Round(m.YouTubeWatchHours) }, false, true),
				},
			},
		},

		Ages: []Share{
			{Label: "18-22", Percent: cur.Age18to22 * 100},
			{Label: "23-27", Percent: cur.Age23to27 * 100},
			{Label: "28-34", Percent: cur.Age28to34 * 100},
			{Label: "35-44", Percent: cur.Age35to44 * 100},
			{Label: "45-59", Percent: cur.Age45to59 * 100},
			{Label: "60+", Percent: cur.Age60Plus * 100},
		},
		Gender: Gender{
			Male:   cur.Male * 100,
			Female: cur.Female * 100,
			Other:  cur.GenderUnknown * 100,
		},

		SpotifyCountries: top(spotifyRanked(s.SpotifyCountries)),
		AppleCountries:   top(NormalizeRanked(s.AppleCountries)),
		AppleCities:      top(NormalizeRanked(s.AppleCities)),
		Videos:           videos(s.YouTubeVideos),
	}
	if prev != nil {
		r.ComparedTo = podcast.FormatDate(string(prev.Date), podcast.ShortDate)
	}

	return r
}

// spotifyRanked keeps the export's own order, it is already ranked.
func spotifyRanked(cs []SpotifyCountry) []Ranked {
	out := make([]Ranked, 0, len(cs))
	for _, c := range cs {
		out = append(out, Ranked{Name: c.Country, Value: c.Streams})
	}
	return out
}

func videos(vs []YouTubeVideo) []Video {
	out := make([]Video, 0, min(len(vs), TopN))
	for _, v := range vs[:min(len(vs), TopN)] {
		out = append(out, Video{
			Title:      v.Title,
			Published:  podcast.FormatDate(string(v.PublishedAt), podcast.MonthYear),
			Views:      v.Views,
			WatchHours: v.WatchHours,
		})
	}
	return out
}

func top(rs []Ranked) []Ranked {
	return rs[:min(len(rs), TopN)]
}
