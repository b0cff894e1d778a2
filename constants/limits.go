package constants

import "time"

// Input defaults applied when a caller leaves location or budget blank.
const (
	DefaultLocation = "Azerbaijan"
	DefaultBudget   = "<$100"

	MaxInputLength = 200
)

// Per-connector result limits.
const (
	WebSearchLimit          = 80
	ForumSearchLimit        = 40
	EncyclopediaSearchLimit = 15
)

// Pipeline bounds.
const (
	MaxAggregatedResults = 50

	FetchTimeout     = 5 * time.Second
	MaxFetchBytes    = 2 << 20
	MaxSearchBytes   = 1 << 20
	MaxContentChars  = 5000
	MinContentChars  = 200
	ChunkSize        = 2000
	MaxChunks        = 5
	AnalysisTimeout  = 300 * time.Second
	RawPreviewLength = 500
)

// Progress checkpoints reported by the pipeline.
const (
	ProgressStarted      = 5
	ProgressSearched     = 25
	ProgressDeduplicated = 35
	ProgressFetched      = 60
	ProgressChunked      = 70
	ProgressAnalyzed     = 85
	ProgressDone         = 100
)
