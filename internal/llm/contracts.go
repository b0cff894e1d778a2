package llm

import (
	"context"

	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// AnalyzeRequest is what the analysis prompt is built from.
type AnalyzeRequest struct {
	Input  entity.JobInput
	Chunks []string
}

// Analyst is the interface our pipeline depends on. Implementations never
// return an error: a failed or timed-out call yields "" and the report parser
// falls back to empty defaults.
type Analyst interface {
	Analyze(ctx context.Context, prompt string) string
}

// AnalystFunc adapts a plain function to Analyst.
type AnalystFunc func(ctx context.Context, prompt string) string

func (f AnalystFunc) Analyze(ctx context.Context, prompt string) string {
	return f(ctx, prompt)
}
