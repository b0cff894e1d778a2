package llm

// ReportStringFields lists the free-text report keys in prompt order.
var ReportStringFields = []string{
	"problem",
	"target_users",
	"why_it_matters",
	"existing_bad_solutions",
	"mvp_idea",
	"why_it_can_work_in_location",
	"estimated_budget_range",
	"revenue_model",
}

// StepsField is the key holding the ordered first steps.
const StepsField = "first_3_steps"

// BuildReportJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// It describes what a well-behaved model returns; parsed documents are checked
// against it for logging only.
func BuildReportJSONSchema() map[string]any {
	props := make(map[string]any, len(ReportStringFields)+1)
	for _, k := range ReportStringFields {
		props[k] = map[string]any{"type": "string"}
	}
	props[StepsField] = map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	required := append([]string{}, ReportStringFields...)
	required = append(required, StepsField)

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}
