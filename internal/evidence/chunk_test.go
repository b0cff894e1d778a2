package evidence

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ideascout/internal/entity"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
		size     int
		max      int
		want     []string
	}{
		{name: "empty input", contents: nil, size: 4, max: 5, want: []string{}},
		{name: "joined with blank line", contents: []string{"ab", "cd"}, size: 100, max: 5, want: []string{"ab\n\ncd"}},
		{name: "split evenly", contents: []string{"abcdefgh"}, size: 4, max: 5, want: []string{"abcd", "efgh"}},
		{name: "short tail", contents: []string{"abcdefghi"}, size: 4, max: 5, want: []string{"abcd", "efgh", "i"}},
		{name: "capped", contents: []string{"abcdefghijkl"}, size: 2, max: 3, want: []string{"ab", "cd", "ef"}},
		{name: "multibyte safe", contents: []string{"ééééé"}, size: 2, max: 5, want: []string{"éé", "éé", "é"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Chunk(tt.contents, tt.size, tt.max))
		})
	}
}

func TestChunk_DefaultBounds(t *testing.T) {
	contents := make([]string, 10)
	for i := range contents {
		contents[i] = strings.Repeat("x", 5000)
	}

	chunks := Chunk(contents, 2000, 5)

	require.Len(t, chunks, 5)
	for _, c := range chunks {
		assert.Equal(t, 2000, utf8.RuneCountInString(c))
	}
}

func TestContents(t *testing.T) {
	got := Contents([]entity.SearchResult{{Content: "a"}, {Content: "b"}})
	assert.Equal(t, []string{"a", "b"}, got)
}
