package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// Connector is a source-specific search adapter. Search never fails: any
// network or parse problem is logged and produces no results, so one broken
// source cannot abort a research run.
type Connector interface {
	Name() constants.Source
	Search(ctx context.Context, query string, limit int) []entity.SearchResult
}

// Target pairs a connector with its per-run result limit.
type Target struct {
	Connector Connector
	Limit     int
}

// DefaultTargets wires the four standard connectors in priority order.
func DefaultTargets(client *http.Client, feeds []string, logger *slog.Logger) []Target {
	return []Target{
		{Connector: NewDuckDuckGo(client, logger), Limit: constants.WebSearchLimit},
		{Connector: NewReddit(client, logger), Limit: constants.ForumSearchLimit},
		{Connector: NewWikipedia(client, logger), Limit: constants.EncyclopediaSearchLimit},
		{Connector: NewNews(client, feeds, logger), Limit: 0},
	}
}

// SearchAll runs every target concurrently and waits for all of them. The
// returned lists are in target order regardless of completion order.
func SearchAll(ctx context.Context, query string, targets []Target, logger *slog.Logger) [][]entity.SearchResult {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([][]entity.SearchResult, len(targets))

	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("sources.search.panic", "source", t.Connector.Name(), "panic", fmt.Sprint(r))
					out[i] = nil
				}
			}()
			start := time.Now()
			out[i] = t.Connector.Search(ctx, query, t.Limit)
			logger.Info("sources.search.done",
				"source", t.Connector.Name(),
				"results", len(out[i]),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// absolute resolves root-relative links against base and normalizes the rest.
// Blank links resolve to "".
func absolute(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if base != nil && strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		if ref, err := url.Parse(href); err == nil {
			return base.ResolveReference(ref).String()
		}
	}
	return entity.NormalizeURL(href)
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
