package openai

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"

	"github.com/joseph-ayodele/ideascout/internal/llm"
)

// Analyze implements llm.Analyst using a single chat completion in JSON-object
// mode. Any failure yields "".
func (c *Client) Analyze(ctx context.Context, prompt string) string {
	rid := uuid.New().String()
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	c.log.Info("llm.openai.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"prompt_len", len(prompt),
	)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		},
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		status := 0
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		c.log.Error("llm.openai.error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ""
	}
	if len(completion.Choices) == 0 {
		c.log.Error("llm.openai.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ""
	}

	content := completion.Choices[0].Message.Content
	c.log.Info("llm.openai.ok",
		"req_id", rid,
		"model", string(completion.Model),
		"tokens", completion.Usage.TotalTokens,
		"response_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content
}

var _ llm.Analyst = (*Client)(nil)
