// Package extractor pulls a coding problem's title and description out of a
// rendered page using an ordered chain of increasingly blunt strategies.
package extractor

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Result is the outcome of one extraction. Either field may be empty.
type Result struct {
	Title       string
	Description string
}

// Found reports whether the result carries any content.
func (r Result) Found() bool {
	return r.Title != "" || r.Description != ""
}

// Page is the read-only view of a rendered document the strategies work on.
type Page interface {
	// WaitElement blocks until an element matching selector exists or the
	// timeout elapses.
	WaitElement(ctx context.Context, selector string, timeout time.Duration) error

	// ElementText returns the text content of the first element matching
	// selector. ok is false when nothing matches.
	ElementText(ctx context.Context, selector string) (text string, ok bool, err error)

	// BodyText returns the raw text content of the document body.
	BodyText(ctx context.Context) (string, error)

	// VisibleText returns the text of every visible text node, space-joined.
	VisibleText(ctx context.Context) (string, error)
}

// PageCloser is a Page backed by a resource that must be released.
type PageCloser interface {
	Page
	Close() error
}

// Opener acquires a fresh rendered page for url.
type Opener interface {
	Open(ctx context.Context, url string) (PageCloser, error)
}

// Strategy is one step of the extraction chain.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, page Page) (Result, error)
	// Accept decides whether a result ends the chain.
	Accept(r Result) bool
}

// Extractor runs strategies in order and returns the first accepted result.
type Extractor struct {
	strategies []Strategy
	logger     *slog.Logger
}

// New creates an Extractor over the given strategies. A nil logger uses
// slog.Default().
func New(logger *slog.Logger, strategies ...Strategy) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{strategies: strategies, logger: logger}
}

// Default returns the selector → text scan → text dump chain.
func Default(logger *slog.Logger) *Extractor {
	return New(logger,
		NewSelectorStrategy(),
		NewTextScanStrategy(),
		NewTextDumpStrategy(),
	)
}

// Extract never fails. A strategy error counts as "found nothing" and the
// chain moves on; when no strategy accepts, the empty Result is returned.
func (e *Extractor) Extract(ctx context.Context, page Page) Result {
	for _, s := range e.strategies {
		start := time.Now()
		r, err := s.Extract(ctx, page)
		if err != nil {
			e.logger.Debug("extraction strategy failed",
				"strategy", s.Name(),
				"error", err,
				"duration", time.Since(start),
			)
			continue
		}
		if s.Accept(r) {
			e.logger.Info("extraction strategy succeeded",
				"strategy", s.Name(),
				"titleLen", len(r.Title),
				"descriptionLen", len(r.Description),
				"duration", time.Since(start),
			)
			return r
		}
		e.logger.Debug("extraction strategy found nothing", "strategy", s.Name())
	}
	return Result{}
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func runeLen(s string) int {
	return len([]rune(s))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
