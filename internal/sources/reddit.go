package sources

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/utils"
)

var redditResultSel = cascadia.MustCompile("a.search-title")

// Reddit scrapes the legacy search page, which still renders server-side.
type Reddit struct {
	BaseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewReddit(client *http.Client, logger *slog.Logger) *Reddit {
	return &Reddit{
		BaseURL: "https://old.reddit.com",
		client:  client,
		log:     orDefault(logger),
	}
}

func (r *Reddit) Name() constants.Source { return constants.SourceForum }

func (r *Reddit) Search(ctx context.Context, query string, limit int) []entity.SearchResult {
	base, err := url.Parse(r.BaseURL)
	if err != nil {
		r.log.Error("sources.reddit.error", "error", err)
		return nil
	}
	q := url.Values{"q": {query}, "type": {"link"}}
	body, err := utils.BrowserGet(ctx, r.client, strings.TrimRight(r.BaseURL, "/")+"/search?"+q.Encode(), constants.MaxSearchBytes)
	if err != nil {
		r.log.Warn("sources.reddit.error", "query", query, "error", err)
		return nil
	}
	results, err := scrapeAnchors(body, redditResultSel, base, limit, r.Name(), nil)
	if err != nil {
		r.log.Warn("sources.reddit.parse_error", "error", err)
		return nil
	}
	return results
}
