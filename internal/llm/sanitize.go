package llm

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// NormalizeReport maps a decoded document onto a Report field by field.
// Missing or unusable fields become "" (or an empty step list); scalar values
// are stringified and arrays of scalars joined with ", ".
func NormalizeReport(doc map[string]any) entity.Report {
	r := entity.EmptyReport()
	if doc == nil {
		return r
	}

	r.Problem = stringField(doc["problem"])
	r.TargetUsers = stringField(doc["target_users"])
	r.WhyItMatters = stringField(doc["why_it_matters"])
	r.ExistingBadSolutions = stringField(doc["existing_bad_solutions"])
	r.MVPIdea = stringField(doc["mvp_idea"])
	r.WhyItCanWorkInLocation = stringField(doc["why_it_can_work_in_location"])
	r.EstimatedBudgetRange = stringField(doc["estimated_budget_range"])
	r.RevenueModel = stringField(doc["revenue_model"])
	r.FirstSteps = stepsField(doc[StepsField])
	return r
}

func stringField(v any) string {
	switch t := v.(type) {
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := scalar(item); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		return compactJSON(t)
	default:
		s, _ := scalar(v)
		return s
	}
}

// stepsField accepts only arrays; anything else yields no steps.
func stepsField(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	steps := make([]string, 0, len(arr))
	for _, item := range arr {
		if item == nil {
			continue
		}
		if s, ok := scalar(item); ok {
			steps = append(steps, s)
			continue
		}
		steps = append(steps, compactJSON(item))
	}
	return steps
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
