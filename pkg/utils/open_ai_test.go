package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewOpenAIClient(openai.NewClientWithConfig(cfg), "")
}

func TestOpenAIClientSendsJSONModeRequest(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"places\":[]}"},"finish_reason":"stop"}]}`))
	})

	out, err := client.GenerateJSON(context.Background(), GenerationRequest{
		SystemInstruction: "be terse",
		Prompt:            `{"userTripData":{}}`,
		Config:            GenerationConfig{Temperature: 0.7, TopP: 0.9, TopK: 40, MaxOutputTokens: 2048},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"places":[]}`, out)

	assert.Equal(t, openai.GPT4oMini, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "be terse", got.Messages[0].Content)
	assert.Equal(t, 2048, got.MaxTokens)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
}

func TestOpenAIClientTransportError(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	})

	_, err := client.GenerateJSON(context.Background(), GenerationRequest{Prompt: "{}"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai")
}

func TestNewJSONGeneratorRejectsUnknownProvider(t *testing.T) {
	_, err := NewJSONGenerator(context.Background(), "llama", "k", "")
	assert.Error(t, err)

	gen, err := NewJSONGenerator(context.Background(), "openai", "k", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", gen.Provider())
}
