package sources

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/joseph-ayodele/ideascout/constants"
	"github.com/joseph-ayodele/ideascout/internal/entity"
)

// scrapeAnchors collects title/href pairs for every element matching sel,
// stopping at limit. rewrite, when set, can replace an href before resolution.
func scrapeAnchors(body []byte, sel cascadia.Selector, base *url.URL, limit int, source constants.Source, rewrite func(string) string) ([]entity.SearchResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var results []entity.SearchResult
	for _, n := range sel.MatchAll(doc) {
		if limit > 0 && len(results) >= limit {
			break
		}
		href := attr(n, "href")
		if rewrite != nil {
			href = rewrite(href)
		}
		u := absolute(base, href)
		if u == "" {
			continue
		}
		results = append(results, entity.SearchResult{
			URL:    u,
			Title:  collapse(textContent(n)),
			Source: source,
		})
	}
	return results, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// plainText strips markup from an HTML fragment such as a search snippet.
func plainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return collapse(fragment)
	}
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(textContent(n))
	}
	return collapse(sb.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
