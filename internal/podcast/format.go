package podcast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layouts the site displays dates in.
const (
	LongDate  = "January 2, 2006"
	ShortDate = "Jan 2, 2006"
	MonthYear = "Jan 2006"
	ISODate   = "2006-01-02"
)

// FormatDuration renders a feed duration for display.
//
// Clock strings ("1:02:05") and anything that isn't an integer are returned as is.
// Integer seconds become H:MM:SS, or M:SS under an hour.
func FormatDuration(d string) string {
	if d == "" || strings.Contains(d, ":") {
		return d
	}

	secs, err := strconv.Atoi(strings.TrimSpace(d))
	if err != nil {
		return d
	}

	hours := secs / 3600
	minutes := (secs % 3600) / 60
	secs = secs % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// ParseDate reads the loose date formats feeds and analytics exports use.
// Times without a zone are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing date %q: %w", s, err)
	}

	return t.UTC(), nil
}

// FormatDate renders s with layout, or returns s untouched if it can't be parsed.
func FormatDate(s, layout string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}

	return t.Format(layout)
}

// Truncate shortens text to at most n runes plus an ellipsis.
func Truncate(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}

	return strings.TrimSpace(string(r[:n])) + "..."
}
