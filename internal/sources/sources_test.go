package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

const ddgPage = `<html><body>
<div class="result"><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa&rut=x">  Example
 A </a></div>
<div class="result"><a class="result__a" href="https://example.com/b">Example B</a></div>
<div class="result"><a class="result__a" href="">Empty</a></div>
<div class="result"><a class="result__a" href="example.com/c">Example C</a></div>
<a class="other" href="https://ignored.example">nope</a>
</body></html>`

const redditPage = `<html><body>
<a class="search-title may-blank" href="/r/coffee/comments/1/best_beans/">Best beans</a>
<a class="search-title" href="https://old.reddit.com/r/coffee/comments/2/">Second</a>
</body></html>`

const wikiJSON = `{"query":{"search":[
{"title":"Coffee shop","snippet":"A <span class=\"searchmatch\">coffee</span> shop is an establishment"},
{"title":"Coffee","snippet":"plain"}
]}}`

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Feed</title>
<item><title>Coffee prices surge</title><link>https://news.example/1</link><description>&lt;p&gt;Beans up&lt;/p&gt;</description></item>
<item><title>Tea market steady</title><link>https://news.example/2</link><description>unrelated coffee mention</description></item>
<item><title>Why COFFEE startups fail</title><link>https://news.example/3</link></item>
</channel></rss>`

func newFakeWeb(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/html/", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "coffee", r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, ddgPage)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "link", r.URL.Query().Get("type"))
		_, _ = io.WriteString(w, redditPage)
	})
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "search", r.URL.Query().Get("list"))
		assert.Equal(t, "15", r.URL.Query().Get("srlimit"))
		_, _ = io.WriteString(w, wikiJSON)
	})
	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = io.WriteString(w, rssFeed)
	})
	mux.HandleFunc("/broken.xml", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestDuckDuckGo_Search(t *testing.T) {
	srv := newFakeWeb(t)
	d := NewDuckDuckGo(srv.Client(), nil)
	d.BaseURL = srv.URL

	got := d.Search(context.Background(), "coffee", 80)

	require.Len(t, got, 3)
	assert.Equal(t, "https://example.com/a", got[0].URL)
	assert.Equal(t, "Example A", got[0].Title)
	assert.Equal(t, "https://example.com/b", got[1].URL)
	assert.Equal(t, "https://example.com/c", got[2].URL)
	for _, r := range got {
		assert.Equal(t, constants.SourceWeb, r.Source)
	}

	assert.Len(t, d.Search(context.Background(), "coffee", 1), 1)
}

func TestReddit_Search(t *testing.T) {
	srv := newFakeWeb(t)
	r := NewReddit(srv.Client(), nil)
	r.BaseURL = srv.URL

	got := r.Search(context.Background(), "coffee", 40)

	require.Len(t, got, 2)
	assert.Equal(t, srv.URL+"/r/coffee/comments/1/best_beans/", got[0].URL)
	assert.Equal(t, "Best beans", got[0].Title)
	assert.Equal(t, constants.SourceForum, got[1].Source)
}

func TestWikipedia_Search(t *testing.T) {
	srv := newFakeWeb(t)
	w := NewWikipedia(srv.Client(), nil)
	w.BaseURL = srv.URL

	got := w.Search(context.Background(), "coffee", 15)

	require.Len(t, got, 2)
	assert.Equal(t, srv.URL+"/wiki/Coffee%20shop", got[0].URL)
	assert.Equal(t, "A coffee shop is an establishment", got[0].Snippet)
	assert.Equal(t, constants.SourceEncyclopedia, got[0].Source)
}

func TestNews_Search(t *testing.T) {
	srv := newFakeWeb(t)
	n := NewNews(srv.Client(), []string{srv.URL + "/broken.xml", srv.URL + "/feed.xml"}, nil)

	got := n.Search(context.Background(), "Coffee", 0)

	require.Len(t, got, 2)
	assert.Equal(t, "https://news.example/1", got[0].URL)
	assert.Equal(t, "Beans up", got[0].Snippet)
	assert.Equal(t, "https://news.example/3", got[1].URL)
}

func TestConnectors_FailureYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(srv.Client(), nil)
	d.BaseURL = srv.URL
	r := NewReddit(srv.Client(), nil)
	r.BaseURL = srv.URL
	w := NewWikipedia(srv.Client(), nil)
	w.BaseURL = srv.URL
	n := NewNews(srv.Client(), []string{srv.URL}, nil)

	for _, c := range []Connector{d, r, w, n} {
		assert.Empty(t, c.Search(context.Background(), "coffee", 10), c.Name())
	}
}

type stubConnector struct {
	name    constants.Source
	delay   time.Duration
	results []entity.SearchResult
	panics  bool
}

func (s stubConnector) Name() constants.Source { return s.name }

func (s stubConnector) Search(ctx context.Context, _ string, _ int) []entity.SearchResult {
	if s.panics {
		panic("connector exploded")
	}
	time.Sleep(s.delay)
	return s.results
}

func TestSearchAll_PreservesTargetOrder(t *testing.T) {
	targets := []Target{
		{Connector: stubConnector{name: "slow", delay: 50 * time.Millisecond, results: []entity.SearchResult{{URL: "https://a"}}}},
		{Connector: stubConnector{name: "boom", panics: true}},
		{Connector: stubConnector{name: "fast", results: []entity.SearchResult{{URL: "https://b"}}}},
	}

	out := SearchAll(context.Background(), "q", targets, nil)

	require.Len(t, out, 3)
	assert.Equal(t, "https://a", out[0][0].URL)
	assert.Empty(t, out[1])
	assert.Equal(t, "https://b", out[2][0].URL)
}

func TestMerge(t *testing.T) {
	web := []entity.SearchResult{
		{URL: "https://x.com", Title: "web", Source: constants.SourceWeb},
		{URL: "//y.com", Title: "web-y", Source: constants.SourceWeb},
	}
	forum := []entity.SearchResult{
		{URL: "https://x.com", Title: "forum", Source: constants.SourceForum},
		{URL: "z.com", Title: "forum-z", Source: constants.SourceForum},
	}

	got := Merge(50, web, forum)

	want := []entity.SearchResult{
		{URL: "https://x.com", Title: "web", Source: constants.SourceWeb},
		{URL: "https://y.com", Title: "web-y", Source: constants.SourceWeb},
		{URL: "https://z.com", Title: "forum-z", Source: constants.SourceForum},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_CapAndUniqueness(t *testing.T) {
	var many []entity.SearchResult
	for i := 0; i < 120; i++ {
		many = append(many, entity.SearchResult{URL: fmt.Sprintf("https://site/%d", i%70)})
	}

	got := Merge(constants.MaxAggregatedResults, many)

	require.Len(t, got, 50)
	seen := map[string]bool{}
	for i, r := range got {
		assert.False(t, seen[r.URL])
		seen[r.URL] = true
		assert.Equal(t, fmt.Sprintf("https://site/%d", i), r.URL)
	}
	assert.Empty(t, Merge(50))
}

func TestAbsolute(t *testing.T) {
	base, _ := url.Parse("https://old.reddit.com")
	assert.Equal(t, "https://old.reddit.com/r/x", absolute(base, "/r/x"))
	assert.Equal(t, "https://cdn.example/x", absolute(base, "//cdn.example/x"))
	assert.Equal(t, "https://plain.example", absolute(base, "plain.example"))
	assert.Equal(t, "", absolute(base, "  "))
}
