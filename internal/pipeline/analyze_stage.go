package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/llm"
)

// AnalyzeStage prompts the model and repairs whatever it answers.
type AnalyzeStage struct {
	Analyst llm.Analyst
	Logger  *slog.Logger
}

func NewAnalyzeStage(analyst llm.Analyst, logger *slog.Logger) *AnalyzeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStage{Analyst: analyst, Logger: logger}
}

// Ask sends the analysis prompt and returns the raw model text ("" on failure).
func (a *AnalyzeStage) Ask(ctx context.Context, input entity.JobInput, chunks []string) string {
	start := time.Now()
	prompt := llm.BuildAnalysisPrompt(llm.AnalyzeRequest{Input: input, Chunks: chunks})
	raw := a.Analyst.Analyze(ctx, prompt)
	a.Logger.Info("pipeline.analyze.returned",
		"prompt_len", len(prompt),
		"response_len", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return raw
}

// Parse never fails; see llm.ParseReport.
func (a *AnalyzeStage) Parse(raw string) entity.Report {
	return llm.ParseReport(raw, a.Logger)
}
