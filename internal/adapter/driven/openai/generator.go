// Package openai implements the TextGenerator port using the go-openai library.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/ericfisherdev/commitcast/internal/adapter/driven/transport"
	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TextGenerator = (*Generator)(nil)

// Sampling settings per prompt style. Minimal leaves temperature at the API
// default.
const (
	richTemperature  float32 = 0.7
	richMaxTokens            = 150
	minimalMaxTokens         = 100
)

// Generator implements the driven.TextGenerator port with a chat completion
// request.
type Generator struct {
	client *goopenai.Client
	model  string
}

// NewGenerator creates a Generator for the given API key and model name.
func NewGenerator(apiKey, modelName string) *Generator {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.HTTPClient = transport.NewLoggingClient(slog.Default())
	return &Generator{client: goopenai.NewClientWithConfig(cfg), model: modelName}
}

// NewGeneratorWithHTTPClient creates a Generator with a custom http.Client and
// base URL (including the /v1 suffix). This constructor is intended for testing.
func NewGeneratorWithHTTPClient(httpClient *http.Client, baseURL, apiKey, modelName string) *Generator {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	cfg.HTTPClient = httpClient
	return &Generator{client: goopenai.NewClientWithConfig(cfg), model: modelName}
}

// Generate sends prompt as one chat completion and returns the first choice's
// content verbatim. Empty content is reported as driven.ErrGeneration.
func (g *Generator) Generate(ctx context.Context, prompt model.Prompt) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:    g.model,
		Messages: buildMessages(prompt),
	}
	if prompt.Style == model.PromptStyleMinimal {
		req.MaxTokens = minimalMaxTokens
	} else {
		req.Temperature = richTemperature
		req.MaxTokens = richMaxTokens
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("chat completion: %w: %w", driven.ErrAuthentication, err)
		}
		return "", fmt.Errorf("chat completion: %w: %w", driven.ErrGeneration, err)
	}

	slog.Debug("openai completion",
		"model", resp.Model,
		"choices", len(resp.Choices),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", driven.ErrGeneration)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty completion content", driven.ErrGeneration)
	}

	return content, nil
}

// buildMessages maps a prompt to chat messages, omitting an empty system part.
func buildMessages(prompt model.Prompt) []goopenai.ChatCompletionMessage {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if prompt.System != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: prompt.System,
		})
	}
	return append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt.User,
	})
}
