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

var ddgResultSel = cascadia.MustCompile("a.result__a")

// DuckDuckGo scrapes the HTML-only results page.
type DuckDuckGo struct {
	BaseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewDuckDuckGo(client *http.Client, logger *slog.Logger) *DuckDuckGo {
	return &DuckDuckGo{
		BaseURL: "https://html.duckduckgo.com",
		client:  client,
		log:     orDefault(logger),
	}
}

func (d *DuckDuckGo) Name() constants.Source { return constants.SourceWeb }

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) []entity.SearchResult {
	base, err := url.Parse(d.BaseURL)
	if err != nil {
		d.log.Error("sources.duckduckgo.error", "error", err)
		return nil
	}
	body, err := utils.BrowserGet(ctx, d.client, strings.TrimRight(d.BaseURL, "/")+"/html/?q="+url.QueryEscape(query), constants.MaxSearchBytes)
	if err != nil {
		d.log.Warn("sources.duckduckgo.error", "query", query, "error", err)
		return nil
	}
	results, err := scrapeAnchors(body, ddgResultSel, base, limit, d.Name(), unwrapDDGRedirect)
	if err != nil {
		d.log.Warn("sources.duckduckgo.parse_error", "error", err)
		return nil
	}
	return results
}

// unwrapDDGRedirect turns //duckduckgo.com/l/?uddg=<target> into <target>.
func unwrapDDGRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	u, err := url.Parse(entity.NormalizeURL(href))
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
