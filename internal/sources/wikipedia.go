package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/utils"
)

// Wikipedia queries the MediaWiki full-text search API.
type Wikipedia struct {
	BaseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewWikipedia(client *http.Client, logger *slog.Logger) *Wikipedia {
	return &Wikipedia{
		BaseURL: "https://en.wikipedia.org",
		client:  client,
		log:     orDefault(logger),
	}
}

func (w *Wikipedia) Name() constants.Source { return constants.SourceEncyclopedia }

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

func (w *Wikipedia) Search(ctx context.Context, query string, limit int) []entity.SearchResult {
	base := strings.TrimRight(w.BaseURL, "/")
	q := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"format":   {"json"},
	}
	if limit > 0 {
		q.Set("srlimit", strconv.Itoa(limit))
	}

	body, err := utils.BrowserGet(ctx, w.client, base+"/w/api.php?"+q.Encode(), constants.MaxSearchBytes)
	if err != nil {
		w.log.Warn("sources.wikipedia.error", "query", query, "error", err)
		return nil
	}

	var resp wikiSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		w.log.Warn("sources.wikipedia.decode_error", "error", err)
		return nil
	}

	results := make([]entity.SearchResult, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		if limit > 0 && len(results) >= limit {
			break
		}
		if strings.TrimSpace(hit.Title) == "" {
			continue
		}
		results = append(results, entity.SearchResult{
			URL:     entity.NormalizeURL(base + "/wiki/" + url.PathEscape(hit.Title)),
			Title:   hit.Title,
			Snippet: plainText(hit.Snippet),
			Source:  w.Name(),
		})
	}
	return results
}
