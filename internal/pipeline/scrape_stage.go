package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/evidence"
	"github.com/joseph-ayodele/ideascout/internal/scrape"
)

// Enricher fills SearchResult.Content; *scrape.Fetcher is the production one.
type Enricher interface {
	Enrich(ctx context.Context, results []entity.SearchResult, onItem func(done, total int)) []entity.SearchResult
}

var _ Enricher = (*scrape.Fetcher)(nil)

// ScrapeStage fetches page text and cuts it into evidence chunks.
type ScrapeStage struct {
	Fetcher   Enricher
	ChunkSize int
	MaxChunks int
	Logger    *slog.Logger
}

func NewScrapeStage(fetcher Enricher, logger *slog.Logger) *ScrapeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrapeStage{
		Fetcher:   fetcher,
		ChunkSize: constants.ChunkSize,
		MaxChunks: constants.MaxChunks,
		Logger:    logger,
	}
}

// Fetch enriches results sequentially, reporting progress linearly between
// ProgressDeduplicated and ProgressFetched.
func (s *ScrapeStage) Fetch(ctx context.Context, results []entity.SearchResult, progress func(int)) []entity.SearchResult {
	span := constants.ProgressFetched - constants.ProgressDeduplicated
	return s.Fetcher.Enrich(ctx, results, func(done, total int) {
		if total > 0 {
			progress(constants.ProgressDeduplicated + done*span/total)
		}
	})
}

// Chunk turns kept page text into at most MaxChunks prompt-sized pieces.
func (s *ScrapeStage) Chunk(results []entity.SearchResult) []string {
	chunks := evidence.Chunk(evidence.Contents(results), s.ChunkSize, s.MaxChunks)
	s.Logger.Info("pipeline.chunk.ok", "pages", len(results), "chunks", len(chunks))
	return chunks
}
