package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openaiAdapter "github.com/ericfisherdev/commitcast/internal/adapter/driven/openai"
	"github.com/ericfisherdev/commitcast/internal/domain/model"
	"github.com/ericfisherdev/commitcast/internal/domain/port/driven"
)

// chatRequestJSON captures the fields of a chat completion request under test.
type chatRequestJSON struct {
	Model       string   `json:"model"`
	Temperature *float32 `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionJSON(contents ...string) map[string]any {
	choices := make([]map[string]any, 0, len(contents))
	for i, c := range contents {
		choices = append(choices, map[string]any{
			"index":         i,
			"message":       map[string]any{"role": "assistant", "content": c},
			"finish_reason": "stop",
		})
	}
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": choices,
		"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

// newTestGenerator creates a Generator backed by the given httptest handler.
func newTestGenerator(t *testing.T, handler http.Handler) *openaiAdapter.Generator {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return openaiAdapter.NewGeneratorWithHTTPClient(server.Client(), server.URL+"/v1", "sk-test", "gpt-3.5-turbo")
}

func TestGenerate_RichPrompt(t *testing.T) {
	var got chatRequestJSON
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionJSON("Today's #git commits: shipped B", "second choice"))
	})

	gen := newTestGenerator(t, handler)
	text, err := gen.Generate(context.Background(), model.Prompt{
		Style:  model.PromptStyleRich,
		System: "system rules",
		User:   "commit list",
	})

	require.NoError(t, err)
	assert.Equal(t, "Today's #git commits: shipped B", text)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	require.NotNil(t, got.Temperature)
	assert.InDelta(t, 0.7, *got.Temperature, 0.0001)
	assert.Equal(t, 150, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system rules", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "commit list", got.Messages[1].Content)
}

func TestGenerate_MinimalPromptUsesDefaultTemperature(t *testing.T) {
	var got chatRequestJSON
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionJSON("Shipped a fix today."))
	})

	gen := newTestGenerator(t, handler)
	_, err := gen.Generate(context.Background(), model.Prompt{Style: model.PromptStyleMinimal, User: "fix"})

	require.NoError(t, err)
	assert.Nil(t, got.Temperature)
	assert.Equal(t, 100, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestGenerate_EmptyContent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionJSON("   "))
	})

	gen := newTestGenerator(t, handler)
	text, err := gen.Generate(context.Background(), model.Prompt{User: "x"})

	assert.Empty(t, text)
	assert.ErrorIs(t, err, driven.ErrGeneration)
}

func TestGenerate_NoChoices(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completionJSON())
	})

	gen := newTestGenerator(t, handler)
	_, err := gen.Generate(context.Background(), model.Prompt{User: "x"})

	assert.ErrorIs(t, err, driven.ErrGeneration)
}

func TestGenerate_Unauthorized(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	gen := newTestGenerator(t, handler)
	_, err := gen.Generate(context.Background(), model.Prompt{User: "x"})

	assert.ErrorIs(t, err, driven.ErrAuthentication)
	assert.NotErrorIs(t, err, driven.ErrGeneration)
}

func TestGenerate_ServerError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"The server had an error","type":"server_error"}}`))
	})

	gen := newTestGenerator(t, handler)
	_, err := gen.Generate(context.Background(), model.Prompt{User: "x"})

	assert.ErrorIs(t, err, driven.ErrGeneration)
}
