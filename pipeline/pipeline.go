// Package pipeline runs the process → render → notify job for a URL in the
// background, with no retries and no result reported to the caller.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/use-agent/solvr/models"
)

// Processor produces a solution for a URL.
type Processor interface {
	Process(ctx context.Context, url string) (*models.Solution, error)
}

// Renderer turns a solution into a document on disk.
type Renderer interface {
	Render(ctx context.Context, sol *models.Solution) (*models.Artifact, error)
}

// Notifier delivers a document to a recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, documentPath, title string) (*models.Delivery, error)
}

// Options tunes a Pipeline.
type Options struct {
	// CleanupDelay is how long a delivered artifact stays on disk.
	CleanupDelay time.Duration
	// JobTimeout bounds a whole job. Zero means no deadline.
	JobTimeout time.Duration
	Logger     *slog.Logger
}

// Pipeline holds the collaborators shared by every job. Jobs share no
// mutable state.
type Pipeline struct {
	processor Processor
	renderer  Renderer
	notifier  Notifier
	recipient string
	opts      Options
	logger    *slog.Logger
}

// New creates a Pipeline delivering to recipient.
func New(processor Processor, renderer Renderer, notifier Notifier, recipient string, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		processor: processor,
		renderer:  renderer,
		notifier:  notifier,
		recipient: recipient,
		opts:      opts,
		logger:    logger,
	}
}

// Handle starts a detached job for url and returns immediately.
func (p *Pipeline) Handle(url string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("pipeline job panicked",
					"url", url,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		ctx := context.Background()
		if p.opts.JobTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.opts.JobTimeout)
			defer cancel()
		}
		_ = p.Run(ctx, url)
	}()
}

// Run executes one job synchronously. The first failing stage ends the job;
// its error is logged with the stage name and returned.
func (p *Pipeline) Run(ctx context.Context, url string) error {
	start := time.Now()
	p.logger.Info("pipeline started", "url", url)

	sol, err := p.processor.Process(ctx, url)
	if err != nil {
		return p.fail(url, "process", start, err)
	}

	artifact, err := p.renderer.Render(ctx, sol)
	if err != nil {
		return p.fail(url, "render", start, err)
	}

	delivery, err := p.notifier.Send(ctx, p.recipient, artifact.Path, sol.Title())
	if err != nil {
		return p.fail(url, "notify", start, err)
	}

	p.scheduleCleanup(artifact.Path)
	p.logger.Info("pipeline completed",
		"url", url,
		"file", artifact.Filename,
		"messageID", delivery.MessageID,
		"duration", time.Since(start),
	)
	return nil
}

func (p *Pipeline) fail(url, stage string, start time.Time, err error) error {
	p.logger.Error("pipeline stage failed",
		"url", url,
		"stage", stage,
		"code", models.ErrorCode(err),
		"error", err,
		"duration", time.Since(start),
	)
	return fmt.Errorf("%s: %w", stage, err)
}

// scheduleCleanup removes path once CleanupDelay has passed. A file that
// is already gone is not an error.
func (p *Pipeline) scheduleCleanup(path string) {
	time.AfterFunc(p.opts.CleanupDelay, func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("artifact cleanup failed", "path", path, "error", err)
			return
		}
		p.logger.Debug("artifact removed", "path", path)
	})
}
