package pipeline

import (
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/ideascout/internal/common"
	"github.com/joseph-ayodele/ideascout/internal/llm"
	"github.com/joseph-ayodele/ideascout/internal/llm/ollama"
	"github.com/joseph-ayodele/ideascout/internal/llm/openai"
	"github.com/joseph-ayodele/ideascout/internal/scrape"
	"github.com/joseph-ayodele/ideascout/internal/sources"
)

// NewAnalyst picks the analysis client for the configured provider.
func NewAnalyst(cfg common.LLMConfig, logger *slog.Logger) llm.Analyst {
	if cfg.Provider == common.ProviderOpenAI {
		return openai.NewClient(openai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}, logger)
	}
	return ollama.NewClient(ollama.Config{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
	}, logger)
}

// NewFromConfig wires the production connectors, fetcher and analyst.
func NewFromConfig(cfg *common.Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	client := &http.Client{Timeout: cfg.Scrape.FetchTimeout * 2}

	return NewProcessor(logger,
		NewSearchStage(sources.DefaultTargets(client, cfg.Scrape.NewsFeeds, logger), logger),
		NewScrapeStage(scrape.NewFetcher(client, cfg.Scrape.FetchTimeout, logger), logger),
		NewAnalyzeStage(NewAnalyst(cfg.LLM, logger), logger),
	)
}
