package evidence

import (
	"strings"

	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// Chunk joins contents with blank lines and splits the result into
// consecutive pieces of at most size runes, keeping the first max pieces.
// Splits never land inside a multi-byte character.
func Chunk(contents []string, size, max int) []string {
	if size <= 0 || max <= 0 {
		return []string{}
	}
	joined := []rune(strings.Join(contents, "\n\n"))

	chunks := make([]string, 0, max)
	for start := 0; start < len(joined) && len(chunks) < max; start += size {
		end := min(start+size, len(joined))
		chunks = append(chunks, string(joined[start:end]))
	}
	return chunks
}

// Contents collects the scraped text of each result in order.
func Contents(results []entity.SearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Content)
	}
	return out
}
