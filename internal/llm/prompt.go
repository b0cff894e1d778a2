package llm

import (
	"strings"
)

// BuildAnalysisPrompt composes the single-shot instruction: JSON-only output in
// a fixed shape, the research input, and the evidence chunks.
func BuildAnalysisPrompt(req AnalyzeRequest) string {
	in := req.Input.WithDefaults()

	parts := []string{
		"You are a senior business analyst. Your task is to generate ONE real business idea based on the keyword, location, and budget.",
		"You MUST output ONLY valid JSON. No explanations. No extra text.",
		"If the keyword is too broad, you must still create ONE real business idea.",
		"Return JSON in this exact format:",
		reportShape,
		"KEYWORD: " + in.Keyword + "\nLOCATION: " + in.Location + "\nBUDGET: " + in.Budget,
		"Use the data below ONLY as supporting evidence:",
	}
	if len(req.Chunks) > 0 {
		parts = append(parts, strings.Join(req.Chunks, "\n\n"))
	}
	parts = append(parts, strings.Join([]string{
		"IMPORTANT:",
		"- Do not explain what the keyword means.",
		"- Do not write definitions.",
		"- Do not write anything unrelated to a business idea.",
		"- Output must be valid JSON only.",
	}, "\n"))

	return strings.Join(parts, "\n\n")
}

const reportShape = `{
  "problem": "Explain the real pain/problem in 2-3 sentences",
  "target_users": "Who will pay for it",
  "why_it_matters": "Why solving this problem matters",
  "existing_bad_solutions": "What people currently do",
  "mvp_idea": "Your ONE MVP idea (what you will build first)",
  "why_it_can_work_in_location": "Why this can work in the given location",
  "estimated_budget_range": "Budget needed (low to high)",
  "revenue_model": "How it will make money",
  "first_3_steps": ["step1", "step2", "step3"]
}`
