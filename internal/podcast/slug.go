package podcast

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Combining Diacritical Marks block, U+0300 to U+036F.
	diacritics = runes.Predicate(func(r rune) bool {
		return r >= 0x0300 && r <= 0x036F
	})

	// Whitespace includes the Unicode spaces, NBSP and BOM, not only ASCII.
	disallowed = regexp.MustCompile(`[^a-z0-9\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}-]`)
	whitespace = regexp.MustCompile(`[\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}]+`)
	hyphenRuns = regexp.MustCompile(`-+`)
)

// Slug maps a title to its URL-safe identifier.
//
// The steps run in a fixed order and each one depends on the last, so the
// result only ever contains [a-z0-9-] with no leading, trailing or doubled hyphens.
func Slug(title string) string {
	// Casers keep state, so one per call.
	s := cases.Lower(language.Und).String(title)

	t := transform.Chain(norm.NFD, runes.Remove(diacritics))
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	s = strings.ReplaceAll(s, ".", "-")
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.TrimFunc(s, func(r rune) bool { return r == '-' })
}
