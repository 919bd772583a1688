package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Selectors tried in order; the first with non-empty text wins.
var (
	TitleSelectors = []string{
		`h1[class*="title"]`,
		`[data-cy="question-title"]`,
		`.css-10o4wqw`,
		`h1`,
		`.question-title`,
		`[class*="question-title"]`,
	}

	DescriptionSelectors = []string{
		`[class*="description"]`,
		`[data-track-load="description_content"]`,
		`.content__u3I1`,
		`.question-content`,
		`.css-1jqueqk`,
		`[class*="content"]`,
		`.elfjS`,
		`.notranslate`,
	}
)

const (
	readySelector = `h1, [data-cy="question-title"]`
	readyTimeout  = 5 * time.Second
)

// SelectorStrategy reads known page elements once the title has rendered.
type SelectorStrategy struct {
	Ready       string
	WaitTimeout time.Duration
	Titles      []string
	Bodies      []string
}

// NewSelectorStrategy returns the strategy with the built-in selector lists.
func NewSelectorStrategy() *SelectorStrategy {
	return &SelectorStrategy{
		Ready:       readySelector,
		WaitTimeout: readyTimeout,
		Titles:      TitleSelectors,
		Bodies:      DescriptionSelectors,
	}
}

func (s *SelectorStrategy) Name() string { return "selector" }

func (s *SelectorStrategy) Extract(ctx context.Context, page Page) (Result, error) {
	if err := page.WaitElement(ctx, s.Ready, s.WaitTimeout); err != nil {
		return Result{}, fmt.Errorf("wait for %q: %w", s.Ready, err)
	}
	title, err := firstText(ctx, page, s.Titles)
	if err != nil {
		return Result{}, err
	}
	desc, err := firstText(ctx, page, s.Bodies)
	if err != nil {
		return Result{}, err
	}
	return Result{Title: title, Description: desc}, nil
}

func (s *SelectorStrategy) Accept(r Result) bool { return r.Found() }

// firstText returns the trimmed text of the first selector whose first
// matching element is non-blank.
func firstText(ctx context.Context, page Page, selectors []string) (string, error) {
	for _, sel := range selectors {
		text, ok, err := page.ElementText(ctx, sel)
		if err != nil {
			return "", fmt.Errorf("read %q: %w", sel, err)
		}
		if !ok {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return t, nil
		}
	}
	return "", nil
}
