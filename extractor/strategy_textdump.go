package extractor

import (
	"context"
	"strings"
)

const (
	dumpTitleWords     = 10
	dumpDescriptionMax = 500
)

// TextDumpStrategy is the last resort: it slices whatever visible text the
// page has. It never returns an error and always accepts.
type TextDumpStrategy struct{}

func NewTextDumpStrategy() *TextDumpStrategy { return &TextDumpStrategy{} }

func (s *TextDumpStrategy) Name() string { return "text-dump" }

func (s *TextDumpStrategy) Extract(ctx context.Context, page Page) (Result, error) {
	text, err := page.VisibleText(ctx)
	if err != nil {
		return Result{}, nil
	}
	return dumpText(text), nil
}

func (s *TextDumpStrategy) Accept(Result) bool { return true }

func dumpText(text string) Result {
	clean := collapseSpace(text)
	if clean == "" {
		return Result{}
	}
	words := strings.Split(clean, " ")
	if len(words) > dumpTitleWords {
		words = words[:dumpTitleWords]
	}
	return Result{
		Title:       strings.Join(words, " "),
		Description: truncateRunes(clean, dumpDescriptionMax),
	}
}
