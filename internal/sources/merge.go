package sources

import (
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// Merge concatenates lists in the given order, drops repeated URLs keeping
// the first occurrence, and truncates to limit. limit <= 0 means no cap.
func Merge(limit int, lists ...[]entity.SearchResult) []entity.SearchResult {
	seen := make(map[string]struct{})
	out := make([]entity.SearchResult, 0)
	for _, list := range lists {
		for _, r := range list {
			if limit > 0 && len(out) >= limit {
				return out
			}
			key := entity.NormalizeURL(r.URL)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			r.URL = key
			out = append(out, r)
		}
	}
	return out
}
