package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// GenerationConfig bounds the sampling of a completion call.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

type GenerationRequest struct {
	SystemInstruction string
	Prompt            string
	Config            GenerationConfig
}

// JSONGenerator is a completion backend constrained to emit JSON text.
// Transport failures are returned as errors; the returned text is not validated.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, req GenerationRequest) (string, error)
	Provider() string
	Close() error
}

// GeminiClient implements JSONGenerator using Google's Gemini models
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) GenerateJSON(ctx context.Context, req GenerationRequest) (string, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(req.Config.Temperature)
	m.SetTopP(req.Config.TopP)
	m.SetTopK(req.Config.TopK)
	if req.Config.MaxOutputTokens > 0 {
		m.SetMaxOutputTokens(req.Config.MaxOutputTokens)
	}
	if req.SystemInstruction != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemInstruction)}}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// NewJSONGenerator picks the backend named by provider.
func NewJSONGenerator(ctx context.Context, provider, apiKey, model string) (JSONGenerator, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(openai.NewClient(apiKey), model), nil
	case "gemini":
		return NewGeminiClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
