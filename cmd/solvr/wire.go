package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/use-agent/solvr/config"
	"github.com/use-agent/solvr/extractor"
	"github.com/use-agent/solvr/fetch"
	"github.com/use-agent/solvr/llm"
	"github.com/use-agent/solvr/notify"
	"github.com/use-agent/solvr/pipeline"
	"github.com/use-agent/solvr/render"
	"github.com/use-agent/solvr/scraper"
	"github.com/use-agent/solvr/solver"
	"github.com/use-agent/solvr/transcript"
)

// services are the long-lived collaborators behind the pipeline.
type services struct {
	launcher *scraper.Launcher
	renderer render.Renderer
	notifier *notify.Notifier
	pipeline *pipeline.Pipeline
}

// wire builds every collaborator from cfg. Nothing is dialled or launched
// here; browsers start per session and SMTP connects per message.
func wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*services, error) {
	launcher := scraper.NewLauncher(cfg.Browser, cfg.Scraper, logger)

	client := fetch.New(fetch.WithUserAgent(cfg.Browser.UserAgent))
	transcripts := transcript.NewFetcher(client, transcript.WithLogger(logger))

	completer, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}

	processor := solver.NewProcessor(launcher, extractor.Default(logger), transcripts, completer, logger)

	renderer, err := render.New(cfg.Render, launcher, logger)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	smtp, err := notify.NewSMTP(cfg.Mail)
	if err != nil {
		return nil, fmt.Errorf("mail: %w", err)
	}
	notifier := notify.NewNotifier(smtp, cfg.Mail.FromName, cfg.Mail.User, logger)

	p := pipeline.New(processor, renderer, notifier, cfg.Mail.Recipient, pipeline.Options{
		CleanupDelay: cfg.Pipeline.CleanupDelay,
		JobTimeout:   cfg.Pipeline.JobTimeout,
		Logger:       logger,
	})

	return &services{
		launcher: launcher,
		renderer: renderer,
		notifier: notifier,
		pipeline: p,
	}, nil
}
