package jobs

import (
	"strings"

	"golang.org/x/net/html"
)

const maxDescriptionChars = 120

// normalizeDescription collapses whitespace and caps the text at 120 characters,
// appending "..." when it was cut.
func normalizeDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) > maxDescriptionChars {
		return string(r[:maxDescriptionChars]) + "..."
	}
	return s
}

// spacedText joins every non-blank text node under nodes with single spaces,
// so adjacent elements do not run together.
func spacedText(nodes []*html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(parts, " ")
}
