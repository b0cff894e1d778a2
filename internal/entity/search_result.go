package entity

import (
	"strings"

	"github.com/joseph-ayodele/ideascout/constants"
)

// SearchResult is one candidate evidence location. URL is always normalized
// and doubles as the deduplication key.
type SearchResult struct {
	URL     string           `json:"url"`
	Title   string           `json:"title"`
	Snippet string           `json:"snippet"`
	Content string           `json:"content,omitempty"`
	Source  constants.Source `json:"source"`
}

// NormalizeURL makes u absolute and scheme-qualified: protocol-relative links
// get https, anything without an http(s) scheme gets an https:// prefix.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return u
	default:
		return "https://" + u
	}
}
