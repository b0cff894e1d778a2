package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// Processor coordinates search, aggregation, scraping, chunking, analysis
// and parsing for one research input.
type Processor struct {
	Logger  *slog.Logger
	Search  *SearchStage
	Scrape  *ScrapeStage
	Analyze *AnalyzeStage
}

func NewProcessor(logger *slog.Logger, search *SearchStage, scrape *ScrapeStage, analyze *AnalyzeStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Search: search, Scrape: scrape, Analyze: analyze}
}

// Run executes the full pipeline, calling progress at each checkpoint.
// Source, fetch and model failures degrade to fewer results or an empty
// report; only a cancelled or expired ctx makes Run return an error.
func (p *Processor) Run(ctx context.Context, input entity.JobInput, progress func(int)) (entity.Report, error) {
	if progress == nil {
		progress = func(int) {}
	}
	log := p.Logger.With("job_id", common.JobIDFromContext(ctx))
	start := time.Now()
	input = input.WithDefaults()

	progress(constants.ProgressStarted)

	lists := p.Search.Search(ctx, input.Keyword)
	if err := ctx.Err(); err != nil {
		return entity.Report{}, fmt.Errorf("search stage: %w", err)
	}
	progress(constants.ProgressSearched)

	candidates := p.Search.Aggregate(lists)
	progress(constants.ProgressDeduplicated)

	pages := p.Scrape.Fetch(ctx, candidates, progress)
	if err := ctx.Err(); err != nil {
		return entity.Report{}, fmt.Errorf("fetch stage: %w", err)
	}
	progress(constants.ProgressFetched)

	chunks := p.Scrape.Chunk(pages)
	progress(constants.ProgressChunked)

	raw := p.Analyze.Ask(ctx, input, chunks)
	if err := ctx.Err(); err != nil {
		return entity.Report{}, fmt.Errorf("analysis stage: %w", err)
	}
	progress(constants.ProgressAnalyzed)

	report := p.Analyze.Parse(raw)

	log.Info("pipeline.run.ok",
		"keyword", input.Keyword,
		"candidates", len(candidates),
		"pages", len(pages),
		"chunks", len(chunks),
		"empty_report", report.IsEmpty(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}
