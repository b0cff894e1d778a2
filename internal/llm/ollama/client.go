package ollama

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/joseph-ayodele/ideascout/internal/llm"
)

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// generateResponseSchema is the part of the /api/generate reply we rely on.
var generateResponseSchema = map[string]any{
	"type":     "object",
	"required": []string{"response"},
	"properties": map[string]any{
		"response": map[string]any{"type": "string"},
	},
}

// Analyze implements llm.Analyst against POST {endpoint}/api/generate with
// streaming disabled. Any failure yields "".
func (c *Client) Analyze(ctx context.Context, prompt string) string {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	c.log.Info("llm.ollama.start", "model", c.cfg.Model, "prompt_len", len(prompt))

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/api/generate"
	raw, status, err := llm.SendJSON(ctx, c.http, url, generateRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Stream: false,
	}, nil, c.log)
	if err != nil {
		c.log.Error("llm.ollama.error",
			"status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ""
	}

	if err := llm.ValidateJSONAgainstSchema(generateResponseSchema, raw); err != nil {
		c.log.Error("llm.ollama.unexpected_response",
			"error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ""
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Error("llm.ollama.decode_error",
			"error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ""
	}

	c.log.Info("llm.ollama.ok",
		"response_len", len(out.Response),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out.Response
}

var _ llm.Analyst = (*Client)(nil)
