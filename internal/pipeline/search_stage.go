package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/sources"
)

// SearchStage fans a keyword out to every connector and merges the hits.
type SearchStage struct {
	Targets []sources.Target
	Cap     int
	Logger  *slog.Logger
}

func NewSearchStage(targets []sources.Target, logger *slog.Logger) *SearchStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchStage{Targets: targets, Cap: constants.MaxAggregatedResults, Logger: logger}
}

// Search returns raw per-connector lists in target order.
func (s *SearchStage) Search(ctx context.Context, keyword string) [][]entity.SearchResult {
	start := time.Now()
	lists := sources.SearchAll(ctx, keyword, s.Targets, s.Logger)

	total := 0
	for _, l := range lists {
		total += len(l)
	}
	s.Logger.Info("pipeline.search.ok",
		"keyword", keyword,
		"connectors", len(lists),
		"results", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return lists
}

// Aggregate dedups and caps the connector lists.
func (s *SearchStage) Aggregate(lists [][]entity.SearchResult) []entity.SearchResult {
	merged := sources.Merge(s.Cap, lists...)
	s.Logger.Info("pipeline.aggregate.ok", "unique", len(merged), "cap", s.Cap)
	return merged
}
