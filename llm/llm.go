// Package llm wraps the hosted models that write solutions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/use-agent/solvr/config"
	"github.com/use-agent/solvr/models"
)

// Completer sends a single prompt and returns the model's raw text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generation holds sampling parameters shared by all providers.
type Generation struct {
	Temperature float64
	TopK        float64
	TopP        float64
	MaxTokens   int
}

// New builds the Completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	gen := Generation{
		Temperature: cfg.Temperature,
		TopK:        cfg.TopK,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	}
	var c Completer
	switch cfg.Provider {
	case "", "gemini":
		g, err := NewGemini(ctx, cfg.APIKey, cfg.Model, gen)
		if err != nil {
			return nil, err
		}
		c = g
	case "openai":
		c = NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, gen)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
	return WithTimeout(c, cfg.Timeout), nil
}

// WithTimeout bounds every Complete call on c by d. A non-positive d
// returns c unchanged.
func WithTimeout(c Completer, d time.Duration) Completer {
	if d <= 0 {
		return c
	}
	return &timeoutCompleter{next: c, timeout: d}
}

type timeoutCompleter struct {
	next    Completer
	timeout time.Duration
}

func (t *timeoutCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out, err := t.next.Complete(ctx, prompt)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", models.NewPipelineError(models.ErrCodeTimeout,
			fmt.Sprintf("LLM did not respond within %s", t.timeout), err)
	}
	return out, err
}

// classifyStatus maps provider HTTP status codes to error codes.
func classifyStatus(statusCode int, msg string, err error) *models.PipelineError {
	if msg == "" {
		msg = "LLM API error"
	}
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return models.NewPipelineError(models.ErrCodeLLMAuthFailure, msg, err)
	case statusCode == http.StatusTooManyRequests:
		return models.NewPipelineError(models.ErrCodeLLMRateLimited, msg, err)
	case statusCode > 0:
		return models.NewPipelineError(models.ErrCodeLLMFailure, fmt.Sprintf("LLM API returned %d: %s", statusCode, msg), err)
	default:
		return models.NewPipelineError(models.ErrCodeLLMFailure, msg, err)
	}
}
