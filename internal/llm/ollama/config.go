package ollama

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/ideascout/constants"
)

// Config for the Ollama client.
type Config struct {
	Endpoint string        // default http://localhost:11434
	Model    string        // e.g., "llama3"
	Timeout  time.Duration // per-call ceiling
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.AnalysisTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
