package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
	"github.com/joseph-ayodele/ideascout/internal/utils"
)

var (
	bodySel  = cascadia.MustCompile("body")
	noiseSel = cascadia.MustCompile("script, style, nav, footer")
)

// Fetcher downloads result pages and reduces them to readable text.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	log     *slog.Logger
}

func NewFetcher(client *http.Client, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = constants.FetchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, timeout: timeout, log: logger}
}

// FetchText returns the cleaned body text of rawURL, at most
// constants.MaxContentChars runes. Any failure yields "".
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) string {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	body, err := utils.BrowserGet(ctx, f.client, rawURL, constants.MaxFetchBytes)
	if err != nil {
		f.log.Debug("scrape.fetch.error", "url", rawURL, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return ""
	}
	text, err := ExtractText(body)
	if err != nil {
		f.log.Debug("scrape.parse.error", "url", rawURL, "error", err)
		return ""
	}
	return Truncate(text, constants.MaxContentChars)
}

// Enrich fetches results one at a time, in order, and keeps those whose
// text is longer than constants.MinContentChars runes. onItem, when set, is
// called after every URL with the number processed so far.
func (f *Fetcher) Enrich(ctx context.Context, results []entity.SearchResult, onItem func(done, total int)) []entity.SearchResult {
	kept := make([]entity.SearchResult, 0, len(results))
	total := len(results)
	for i, r := range results {
		if ctx.Err() != nil {
			break
		}
		text := f.FetchText(ctx, r.URL)
		if utf8.RuneCountInString(text) > constants.MinContentChars {
			r.Content = text
			kept = append(kept, r)
		}
		if onItem != nil {
			onItem(i+1, total)
		}
	}
	f.log.Info("scrape.enrich.done", "candidates", total, "kept", len(kept))
	return kept
}

// ExtractText drops script, style, nav and footer subtrees and returns the
// whitespace-collapsed text of <body>.
func ExtractText(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", err
	}
	root := bodySel.MatchFirst(doc)
	if root == nil {
		root = doc
	}
	for _, n := range noiseSel.MatchAll(root) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(strings.Fields(sb.String()), " "), nil
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
