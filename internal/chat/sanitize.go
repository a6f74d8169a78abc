package chat

import (
	"strings"

	"golang.org/x/net/html"
)

// SanitizeInput drops markup from composer input, keeping only its text
// with entities decoded, and trims surrounding whitespace.
func SanitizeInput(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
