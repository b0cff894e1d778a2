package entity

// Report is the structured business-idea analysis produced for a job.
// Every field has a usable zero value; FirstSteps is never nil after Normalized.
type Report struct {
	Problem                string   `json:"problem"`
	TargetUsers            string   `json:"target_users"`
	WhyItMatters           string   `json:"why_it_matters"`
	ExistingBadSolutions   string   `json:"existing_bad_solutions"`
	MVPIdea                string   `json:"mvp_idea"`
	WhyItCanWorkInLocation string   `json:"why_it_can_work_in_location"`
	EstimatedBudgetRange   string   `json:"estimated_budget_range"`
	RevenueModel           string   `json:"revenue_model"`
	FirstSteps             []string `json:"first_3_steps"`
}

// EmptyReport is the all-defaults report.
func EmptyReport() Report {
	return Report{FirstSteps: []string{}}
}

// Normalized returns a copy with a non-nil, independent steps slice.
func (r Report) Normalized() Report {
	steps := make([]string, len(r.FirstSteps))
	copy(steps, r.FirstSteps)
	r.FirstSteps = steps
	return r
}

// IsEmpty reports whether no field carries content.
func (r Report) IsEmpty() bool {
	return r.Problem == "" && r.TargetUsers == "" && r.WhyItMatters == "" &&
		r.ExistingBadSolutions == "" && r.MVPIdea == "" && r.WhyItCanWorkInLocation == "" &&
		r.EstimatedBudgetRange == "" && r.RevenueModel == "" && len(r.FirstSteps) == 0
}
