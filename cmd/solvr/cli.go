package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/use-agent/solvr/config"
	"github.com/use-agent/solvr/extractor"
)

// Dependencies holds the values every command runs with.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Logger *slog.Logger

	// Opener acquires pages for extract --url; nil launches Chrome.
	Opener extractor.Opener
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"withargs" help:"Run the HTTP API (default)"`
	Run     RunCmd     `cmd:"" help:"Process one URL in the foreground and email the result"`
	Extract ExtractCmd `cmd:"" help:"Print the problem title and description found on a page"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	URL string `required:"" help:"YouTube or LeetCode URL"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL  string `xor:"source" required:"" help:"Page to load in Chrome"`
	HTML string `xor:"source" required:"" type:"existingfile" name:"html" help:"Saved HTML file to read instead of loading a page"`
}
