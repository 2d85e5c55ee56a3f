package render

import (
	"fmt"
	"html/template"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/jdholdren/podsite/internal/stats"
)

type ageBar struct {
	stats.Share
	Width template.CSS
}

type statsPage struct {
	chrome
	stats.Report
	Canonical string
	AgeBars   []ageBar
	Donut     template.CSS
}

// StatsPage renders the analytics dashboard for a built report.
func (r *Renderer) StatsPage(rep stats.Report) ([]byte, error) {
	maxAge := 0.0
	for _, a := range rep.Ages {
		maxAge = math.Max(maxAge, a.Percent)
	}

	bars := make([]ageBar, 0, len(rep.Ages))
	for _, a := range rep.Ages {
		width := 0.0
		if maxAge > 0 {
			width = a.Percent / maxAge * 100
		}
		bars = append(bars, ageBar{Share: a, Width: template.CSS(fmt.Sprintf("width:%.0f%%", width))})
	}

	var (
		maleDeg   = rep.Gender.Male / 100 * 360
		femaleDeg = maleDeg + rep.Gender.Female/100*360
	)
	donut := template.CSS(fmt.Sprintf(
		"background:conic-gradient(var(--accent-orange) 0deg %.1fdeg, #D56DFB %.1fdeg %.1fdeg, #64748b %.1fdeg 360deg)",
		maleDeg, maleDeg, femaleDeg, femaleDeg,
	))

	return r.execute("stats", statsPage{
		chrome:    r.chrome("stats"),
		Report:    rep,
		Canonical: r.url("/stats/"),
		AgeBars:   bars,
		Donut:     donut,
	})
}

// number renders integral values with thousands separators and anything
// else with one decimal.
func number(f float64) string {
	if f == math.Trunc(f) {
		return humanize.Comma(int64(f))
	}
	return humanize.CommafWithDigits(f, 1)
}

func oneDecimal(f float64) string {
	return fmt.Sprintf("%.1f", f)
}
