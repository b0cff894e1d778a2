package sources

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/utils"
)

// News filters a fixed set of RSS/Atom feeds by headline.
type News struct {
	Feeds  []string
	client *http.Client
	log    *slog.Logger
}

// NewNews uses constants.DefaultNewsFeeds when feeds is empty.
func NewNews(client *http.Client, feeds []string, logger *slog.Logger) *News {
	if len(feeds) == 0 {
		feeds = constants.DefaultNewsFeeds
	}
	return &News{
		Feeds:  feeds,
		client: client,
		log:    orDefault(logger),
	}
}

func (n *News) Name() constants.Source { return constants.SourceNews }

// Search fetches feeds one after another and keeps items whose title
// contains query, case-insensitively. limit is ignored.
func (n *News) Search(ctx context.Context, query string, _ int) []entity.SearchResult {
	needle := strings.ToLower(strings.TrimSpace(query))
	parser := gofeed.NewParser()

	var results []entity.SearchResult
	for _, feedURL := range n.Feeds {
		if ctx.Err() != nil {
			break
		}
		body, err := utils.BrowserGet(ctx, n.client, feedURL, constants.MaxFetchBytes)
		if err != nil {
			n.log.Warn("sources.news.error", "feed", feedURL, "error", err)
			continue
		}
		feed, err := parser.Parse(bytes.NewReader(body))
		if err != nil {
			n.log.Warn("sources.news.parse_error", "feed", feedURL, "error", err)
			continue
		}
		for _, item := range feed.Items {
			if item == nil || strings.TrimSpace(item.Link) == "" {
				continue
			}
			if !strings.Contains(strings.ToLower(item.Title), needle) {
				continue
			}
			results = append(results, entity.SearchResult{
				URL:     entity.NormalizeURL(strings.TrimSpace(item.Link)),
				Title:   strings.TrimSpace(item.Title),
				Snippet: plainText(item.Description),
				Source:  n.Name(),
			})
		}
	}
	return results
}
