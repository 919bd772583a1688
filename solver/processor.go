// Package solver turns a source URL into a structured solution: it gathers
// problem content, prompts the model, and parses the answer.
package solver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/solvr/extractor"
	"github.com/use-agent/solvr/llm"
	"github.com/use-agent/solvr/models"
	"github.com/use-agent/solvr/transcript"
)

// Problem types passed to the prompt.
const (
	TypeYouTube  = "YouTube Video"
	TypeLeetCode = "LeetCode Problem"
)

// videoUnavailable is the content used when no transcript can be fetched.
const videoUnavailable = "Unable to extract video content"

// TranscriptFetcher fetches a video's captions.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (*transcript.Transcript, error)
}

var _ TranscriptFetcher = (*transcript.Fetcher)(nil)

// Processor produces a Solution for a YouTube or LeetCode URL.
type Processor struct {
	opener      extractor.Opener
	extractor   *extractor.Extractor
	transcripts TranscriptFetcher
	completer   llm.Completer
	logger      *slog.Logger
}

// NewProcessor wires a Processor. A nil logger uses slog.Default().
func NewProcessor(opener extractor.Opener, ex *extractor.Extractor, transcripts TranscriptFetcher, completer llm.Completer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if ex == nil {
		ex = extractor.Default(logger)
	}
	return &Processor{
		opener:      opener,
		extractor:   ex,
		transcripts: transcripts,
		completer:   completer,
		logger:      logger,
	}
}

// Process gathers content for url and asks the model for a solution.
func (p *Processor) Process(ctx context.Context, url string) (*models.Solution, error) {
	content, problemType := p.Content(ctx, url)

	prompt := BuildPrompt(content, problemType, url)
	start := time.Now()
	p.logger.Info("generating solution",
		"url", url,
		"problemType", problemType,
		"promptTokens", llm.EstimateTokens(prompt),
	)
	raw, err := p.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate solution: %w", err)
	}
	p.logger.Info("solution generated",
		"url", url,
		"responseTokens", llm.EstimateTokens(raw),
		"duration", time.Since(start),
	)
	return ParseSolution(raw, url)
}

// Content returns the text handed to the model and its problem type. It
// never fails: every acquisition failure degrades to fallback text.
func (p *Processor) Content(ctx context.Context, url string) (content, problemType string) {
	switch {
	case strings.Contains(url, "youtube.com"):
		return p.videoContent(ctx, url), TypeYouTube
	case strings.Contains(url, "leetcode.com"):
		return p.leetCodeContent(ctx, url), TypeLeetCode
	default:
		p.logger.Warn("unsupported url, generating without content", "url", url)
		return "", ""
	}
}

func (p *Processor) videoContent(ctx context.Context, url string) string {
	id, ok := transcript.VideoID(url)
	if !ok {
		p.logger.Warn("no video id in url", "url", url)
		return videoUnavailable
	}
	if p.transcripts == nil {
		return videoUnavailable
	}
	t, err := p.transcripts.Fetch(ctx, id)
	if err != nil {
		p.logger.Warn("transcript fetch failed", "url", url, "videoID", id, "error", err)
		return videoUnavailable
	}
	if t.Title != "" {
		return fmt.Sprintf("Video: %s\n\nTranscript: %s", t.Title, t.Text)
	}
	return t.Text
}

func (p *Processor) leetCodeContent(ctx context.Context, url string) string {
	page, err := p.opener.Open(ctx, url)
	if err != nil {
		p.logger.Warn("page acquisition failed, using fallback content",
			"url", url,
			"code", models.ErrorCode(err),
			"error", err,
		)
		return extractor.FallbackContent(url)
	}
	defer func() {
		if err := page.Close(); err != nil {
			p.logger.Warn("page close failed", "url", url, "error", err)
		}
	}()

	r := p.extractor.Extract(ctx, page)
	if !r.Found() {
		p.logger.Warn("extraction found nothing, using fallback content", "url", url)
		return extractor.FallbackContent(url)
	}
	return fmt.Sprintf("Problem: %s\n\nDescription: %s", r.Title, r.Description)
}
