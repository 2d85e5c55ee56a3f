package render

import (
	"html/template"
	"regexp"
	"strings"
)

var (
	escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	subHeading = regexp.MustCompile(`(?m)^## (.+)$`)
	heading    = regexp.MustCompile(`(?m)^# (.+)$`)
	bold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	timestamp  = regexp.MustCompile(`\[(\d{2}:\d{2}:\d{2})\]`)
	blankLines = regexp.MustCompile(`\n\n+`)
)

// Transcript converts a transcript's markdown into HTML.
//
// Only a small subset is understood: "# " and "## " headings, **bold**,
// [HH:MM:SS] timestamps and blank-line separated paragraphs. Everything else
// is kept as literal, escaped text.
func Transcript(markdown string) template.HTML {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	s := strings.ReplaceAll(markdown, "\r\n", "\n")
	s = escaper.Replace(s)
	s = subHeading.ReplaceAllString(s, "<h3>$1</h3>")
	s = heading.ReplaceAllString(s, "<h2>$1</h2>")
	s = bold.ReplaceAllString(s, "<strong>$1</strong>")
	s = timestamp.ReplaceAllString(s, `<span class="timestamp">[$1]</span>`)

	var blocks []string
	for _, block := range blankLines.Split(s, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		// A heading leads its block; whatever follows it is a paragraph.
		if strings.HasPrefix(block, "<h2>") || strings.HasPrefix(block, "<h3>") {
			head, rest, _ := strings.Cut(block, "\n")
			blocks = append(blocks, head)
			if rest = strings.TrimSpace(rest); rest == "" {
				continue
			}
			block = rest
		}

		blocks = append(blocks, "<p>"+strings.ReplaceAll(block, "\n", "<br>")+"</p>")
	}

	return template.HTML(strings.Join(blocks, "\n"))
}

// Socials are the per-platform links listed for an episode.
type Socials struct {
	YouTube       string
	Shorts        string
	Spotify       string
	ApplePodcasts string
}

// Any reports whether there's at least one link to show.
func (s Socials) Any() bool {
	return s.YouTube != "" || s.Shorts != "" || s.Spotify != "" || s.ApplePodcasts != ""
}

var mdLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// ParseSocials reads [text](url) links and files each under a platform by
// its text. Links that name no known platform are ignored; a later link for
// the same platform replaces an earlier one.
func ParseSocials(markdown string) Socials {
	var s Socials
	for _, m := range mdLink.FindAllStringSubmatch(markdown, -1) {
		text, url := strings.ToLower(m[1]), strings.TrimSpace(m[2])

		switch {
		case strings.Contains(text, "youtube short"), strings.Contains(text, "shorts"):
			s.Shorts = url
		case strings.Contains(text, "youtube"):
			s.YouTube = url
		case strings.Contains(text, "spotify"):
			s.Spotify = url
		case strings.Contains(text, "apple"), strings.Contains(text, "podcast"):
			s.ApplePodcasts = url
		}
	}

	return s
}
