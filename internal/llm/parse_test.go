package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ideascout/internal/entity"
)

func TestExtractCandidate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "fenced json block",
			raw:  "Here you go:\n```json\n{\"problem\":\"P\"}\n```\nthanks",
			want: `{"problem":"P"}`,
		},
		{
			name: "fenced block without language",
			raw:  "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "bare object with prose around it",
			raw:  `Sure! {"a": {"b": 1}} hope it helps`,
			want: `{"a": {"b": 1}}`,
		},
		{
			name: "braces in prose after the object",
			raw:  `Sure! {"problem":"x"} Let me know if you want {more} ideas.`,
			want: `{"problem":"x"}`,
		},
		{
			name: "brace inside a string value",
			raw:  `{"problem":"use } carefully"} and {other}`,
			want: `{"problem":"use } carefully"}`,
		},
		{
			name: "no braces",
			raw:  "I cannot help with that.",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCandidate(tt.raw))
		})
	}
}

func TestObjectSpans(t *testing.T) {
	assert.Equal(t, []string{"{draft}", `{"a":{"b":"}"}}`}, ObjectSpans(`Note {draft}: {"a":{"b":"}"}} end }`))
	assert.Equal(t, []string{`{"a":1}`, `{"b": [`}, ObjectSpans(`{"a":1} then {"b": [`))
	assert.Equal(t, []string{`{"q":"say \"}\" now"}`}, ObjectSpans(`x: {"q":"say \"}\" now"}`))
	assert.Empty(t, ObjectSpans("no objects } here"))
}

func TestCandidates(t *testing.T) {
	got := Candidates(`Note {draft}: {"problem":"x"}`)
	assert.Equal(t, []string{"{draft}", `{"problem":"x"}`, `{draft}: {"problem":"x"}`}, got)
	assert.Empty(t, Candidates("nothing"))
}

func TestCleanCandidate(t *testing.T) {
	assert.Equal(t, `{"a": [1, 2]}`, CleanCandidate("  ```json {\"a\": [1, 2,]}```  "))
	assert.Equal(t, `{"a": 1 }`, CleanCandidate(`{"a": 1, }`))
}

func TestParseTolerant(t *testing.T) {
	doc, err := ParseTolerant("{\n  // note\n  \"a\": \"x\",\n}")
	require.NoError(t, err)
	assert.Equal(t, "x", doc["a"])

	_, err = ParseTolerant(`{a: 1}`)
	assert.Error(t, err)

	_, err = ParseTolerant(`[1, 2]`)
	assert.Error(t, err)
}

func TestRepairText(t *testing.T) {
	got := RepairText(`{problem: 'x', first_3_steps: ['a', 'b']}`)
	assert.Equal(t, `{"problem": "x", "first_3_steps": ["a", "b"]}`, got)
}

func TestParseRepaired(t *testing.T) {
	doc, err := ParseRepaired(`{problem: 'x', target_users: 'y'}`)
	require.NoError(t, err)
	assert.Equal(t, "x", doc["problem"])
	assert.Equal(t, "y", doc["target_users"])
}

func TestParseBraceSlice(t *testing.T) {
	doc, err := ParseBraceSlice(`noise {"a": [1,], "b": "c"} trailing`)
	require.NoError(t, err)
	assert.Equal(t, "c", doc["b"])

	doc, err = ParseBraceSlice(`{"problem":"x"} Let me know if you want {more} ideas.`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"problem": "x"}, doc)

	_, err = ParseBraceSlice(`} nothing {`)
	assert.ErrorIs(t, err, errNoObject)

	_, err = ParseBraceSlice(`{"a": }`)
	assert.Error(t, err)
}

func TestDefaultRepairsOrder(t *testing.T) {
	names := make([]string, 0, len(DefaultRepairs))
	for _, r := range DefaultRepairs {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"tolerant", "text_repair", "brace_slice"}, names)
}

func TestParseReport_FencedBlock(t *testing.T) {
	raw := "```json\n{\"problem\":\"P\",\"first_3_steps\":[\"a\",\"b\",\"c\"]}\n```"

	r := ParseReport(raw, nil)

	assert.Equal(t, "P", r.Problem)
	assert.Equal(t, []string{"a", "b", "c"}, r.FirstSteps)
	assert.Equal(t, "", r.TargetUsers)
	assert.Equal(t, "", r.RevenueModel)
}

func TestParseReport_UnquotedKeysAndSingleQuotes(t *testing.T) {
	r := ParseReport(`{problem: 'x', first_3_steps: ['s1']}`, nil)

	assert.Equal(t, "x", r.Problem)
	assert.Equal(t, []string{"s1"}, r.FirstSteps)
}

func TestParseReport_BracesInSurroundingProse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "trailing commentary",
			raw:  `Sure! {"problem":"x","first_3_steps":["a"]} Let me know if you want {more} ideas.`,
		},
		{
			name: "leading commentary",
			raw:  `Note {draft}: {"problem":"x","first_3_steps":["a"]}`,
		},
		{
			name: "empty object before the report",
			raw:  `Schema is {} so here: {"problem":"x","first_3_steps":["a"]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseReport(tt.raw, nil)
			assert.Equal(t, "x", r.Problem)
			assert.Equal(t, []string{"a"}, r.FirstSteps)
		})
	}
}

func TestParseReport_TotalFailure(t *testing.T) {
	for _, raw := range []string{"I cannot help with that.", "", "{not json at all", "{ ] }"} {
		r := ParseReport(raw, nil)
		assert.Equal(t, entity.EmptyReport(), r, "raw=%q", raw)
		assert.NotNil(t, r.FirstSteps)
	}
}

func TestParseReport_FieldDefaulting(t *testing.T) {
	raw := `{
		"problem": 42,
		"target_users": ["students", "parents", null],
		"why_it_matters": null,
		"mvp_idea": true,
		"estimated_budget_range": {"low": "$50"},
		"first_3_steps": "just do it",
		"extra": "ignored"
	}`

	r := ParseReport(raw, nil)

	assert.Equal(t, "42", r.Problem)
	assert.Equal(t, "students, parents", r.TargetUsers)
	assert.Equal(t, "", r.WhyItMatters)
	assert.Equal(t, "true", r.MVPIdea)
	assert.Equal(t, `{"low":"$50"}`, r.EstimatedBudgetRange)
	assert.Equal(t, []string{}, r.FirstSteps)
}

func TestParseReport_StepsTolerateAnyLength(t *testing.T) {
	r := ParseReport(`{"first_3_steps": ["a", null, 2, "b", "c", "d"]}`, nil)
	assert.Equal(t, []string{"a", "2", "b", "c", "d"}, r.FirstSteps)
}

func TestParseReport_EmptyStepsEncodeAsArray(t *testing.T) {
	r := ParseReport("nothing here", nil)
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"first_3_steps":[]`)
}

func TestValidateReportDocument(t *testing.T) {
	ok := map[string]any{StepsField: []any{"a"}}
	for _, k := range ReportStringFields {
		ok[k] = "v"
	}
	assert.NoError(t, ValidateReportDocument(ok))

	assert.Error(t, ValidateReportDocument(map[string]any{"problem": 1.0}))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc", 5))
	assert.Equal(t, "ab", Preview("abc", 2))
	assert.Equal(t, "éé", Preview("ééé", 2))
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	}
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"name":"x","extra":1}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"extra":1}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"name":3}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`not json`)))
}
