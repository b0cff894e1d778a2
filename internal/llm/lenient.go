package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	reFenced        = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	reObjectSpan    = regexp.MustCompile(`\{[\s\S]*\}`)
	reFenceOpen     = regexp.MustCompile("(?i)^```json\\s*")
	reFenceClose    = regexp.MustCompile("```\\s*$")
	reTrailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	reBareKey       = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
)

var errNoObject = errors.New("no json object found")

// Repair is one parse attempt in the cascade. Apply receives the cleaned
// candidate and must not mutate shared state.
type Repair struct {
	Name  string
	Apply func(text string) (map[string]any, error)
}

// DefaultRepairs is the ordered cascade used by ParseReport.
var DefaultRepairs = []Repair{
	{Name: "tolerant", Apply: ParseTolerant},
	{Name: "text_repair", Apply: ParseRepaired},
	{Name: "brace_slice", Apply: ParseBraceSlice},
}

// ExtractCandidate pulls the JSON-looking part out of model output: the first
// fenced ```json block if present, else the first top-level {...} span.
// Returns "" when neither exists.
func ExtractCandidate(raw string) string {
	if c := Candidates(raw); len(c) > 0 {
		return c[0]
	}
	return ""
}

// Candidates lists every span worth parsing, best first: the fenced block,
// each top-level {...} span in order of appearance, then the slice from the
// first '{' to the last '}'. Duplicates are dropped.
func Candidates(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(c string) {
		if c == "" {
			return
		}
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	if m := reFenced.FindStringSubmatch(raw); m != nil {
		add(m[1])
	}
	for _, span := range ObjectSpans(raw) {
		add(span)
	}
	add(reObjectSpan.FindString(raw))
	return out
}

// ObjectSpans returns the balanced top-level {...} spans of s in order.
// Braces inside double-quoted strings do not count. An object still open at
// the end of s is returned as a final, unterminated span.
func ObjectSpans(s string) []string {
	var spans []string
	depth, start := 0, 0
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			// Quotes in prose outside any object are not strings.
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, s[start:i+1])
			}
		}
	}
	if depth > 0 {
		spans = append(spans, s[start:])
	}
	return spans
}

// CleanCandidate trims, strips residual fence markers and drops trailing commas.
func CleanCandidate(candidate string) string {
	s := strings.TrimSpace(candidate)
	s = reFenceOpen.ReplaceAllString(s, "")
	s = reFenceClose.ReplaceAllString(s, "")
	return stripTrailingCommas(s)
}

// ParseTolerant decodes JSON that may carry comments or trailing commas.
func ParseTolerant(text string) (map[string]any, error) {
	std, err := hujson.Standardize([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("tolerant parse: %w", err)
	}
	return decodeObject(std)
}

// RepairText rewrites single quotes to double quotes and quotes bare
// identifier keys. Apostrophes inside values get rewritten too; later
// strategies cover what this breaks.
func RepairText(text string) string {
	s := strings.ReplaceAll(text, "'", `"`)
	return reBareKey.ReplaceAllString(s, `$1"$2":`)
}

// ParseRepaired is ParseTolerant over RepairText.
func ParseRepaired(text string) (map[string]any, error) {
	return ParseTolerant(RepairText(text))
}

// ParseBraceSlice strictly decodes the object that starts at the first '{'
// of the first '{' .. last '}' slice. Anything after that object is ignored.
func ParseBraceSlice(text string) (map[string]any, error) {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first == -1 || last <= first {
		return nil, errNoObject
	}
	var m map[string]any
	dec := json.NewDecoder(strings.NewReader(stripTrailingCommas(text[first : last+1])))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if m == nil {
		return nil, errNoObject
	}
	return m, nil
}

func stripTrailingCommas(s string) string {
	return reTrailingComma.ReplaceAllString(s, "$1")
}

func decodeObject(b []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if m == nil {
		return nil, errNoObject
	}
	return m, nil
}
