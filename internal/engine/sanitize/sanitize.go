// Package sanitize prepares raw log text for a display surface so that log
// content is never interpreted as markup or terminal control sequences.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// HTML escapes s for insertion into an HTML document.
func HTML(s string) string {
	return html.EscapeString(s)
}

// Terminal strips ANSI escape sequences and the remaining control characters
// (tabs become a single space).
func Terminal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
