package core

import (
	"html"
	"regexp"
	"strings"
)

// breakRE matches <br>, <br/>, <br /> and closing block tags that should
// become line breaks.
var breakRE = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>`)

// tagRE matches any remaining HTML tag.
var tagRE = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(?:\s[^>]*)?/?>`)

// blankLinesRE collapses three or more consecutive newlines.
var blankLinesRE = regexp.MustCompile(`\n{3,}`)

// CleanText strips widget HTML from message text for rendering.
//
// Line-break tags become newlines, every other tag is dropped while its inner
// text is kept, and HTML entities are unescaped.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = breakRE.ReplaceAllString(s, "\n")
	s = tagRE.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = blankLinesRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Preview returns the first line of the cleaned text, shortened to max runes.
func Preview(s string, max int) string {
	s = CleanText(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	runes := []rune(strings.TrimSpace(s))
	if max > 3 && len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return string(runes)
}
