package constants

// Source names the evidence connector a search result came from.
type Source string

const (
	SourceWeb          Source = "duckduckgo"
	SourceForum        Source = "reddit"
	SourceEncyclopedia Source = "wikipedia"
	SourceNews         Source = "news"
)

// SourcePriority is the connector order used for aggregation; earlier sources
// win when two results share a URL.
var SourcePriority = []Source{
	SourceWeb,
	SourceForum,
	SourceEncyclopedia,
	SourceNews,
}

// DefaultNewsFeeds is the fixed set of syndication feeds scanned by the news connector.
var DefaultNewsFeeds = []string{
	"https://news.google.com/rss",
	"https://feeds.bloomberg.com/markets/news.rss",
	"https://feeds.cnbc.com/cnbc/world/",
}

// BrowserUserAgent is sent on every outbound evidence request.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
