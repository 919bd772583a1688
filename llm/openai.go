package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
	"github.com/use-agent/solvr/models"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

var _ Completer = (*OpenAI)(nil)

// OpenAI implements Completer against any OpenAI-compatible endpoint.
type OpenAI struct {
	client *openai.Client
	model  string
	gen    Generation
}

// NewOpenAI creates a completer. An empty baseURL uses api.openai.com.
func NewOpenAI(apiKey, baseURL, model string, gen Generation) *OpenAI {
	transportCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		transportCfg.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(transportCfg),
		model:  model,
		gen:    gen,
	}
}

func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(o.gen.Temperature),
		TopP:        float32(o.gen.TopP),
		MaxTokens:   o.gen.MaxTokens,
	}
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", classifyStatus(apiErr.HTTPStatusCode, apiErr.Message, err)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", classifyStatus(reqErr.HTTPStatusCode, "LLM request failed", err)
		}
		return "", classifyStatus(0, "LLM request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", models.NewPipelineError(models.ErrCodeLLMFailure, "LLM returned no choices", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
