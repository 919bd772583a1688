package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/use-agent/solvr/models"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

var _ Completer = (*Gemini)(nil)

// Gemini implements Completer using the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGemini creates a Gemini completer for apiKey.
func NewGemini(ctx context.Context, apiKey, model string, gen Generation) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewGeminiWithClient(client, model, gen), nil
}

// NewGeminiWithClient wraps an existing client.
func NewGeminiWithClient(client *genai.Client, model string, gen Generation) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model, config: BuildGeminiConfig(gen)}
}

// BuildGeminiConfig converts sampling parameters into a GenerateContentConfig.
func BuildGeminiConfig(gen Generation) *genai.GenerateContentConfig {
	temp := float32(gen.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(gen.MaxTokens),
	}
	if gen.TopK > 0 {
		topK := float32(gen.TopK)
		cfg.TopK = &topK
	}
	if gen.TopP > 0 {
		topP := float32(gen.TopP)
		cfg.TopP = &topP
	}
	return cfg
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		g.config,
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", classifyStatus(apiErr.Code, apiErr.Message, err)
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
			return "", classifyStatus(apiErrPtr.Code, apiErrPtr.Message, err)
		}
		return "", classifyStatus(0, "gemini request failed", err)
	}
	if result == nil {
		return "", models.NewPipelineError(models.ErrCodeLLMFailure, "gemini returned nil result", nil)
	}
	text := result.Text()
	if text == "" {
		return "", models.NewPipelineError(models.ErrCodeLLMFailure, "gemini returned empty text", nil)
	}
	return text, nil
}
