package extractor

import (
	"context"
	"strings"
	"time"
)

const (
	scanDelay          = 5 * time.Second
	scanTitleWindow    = 20
	scanTitleMin       = 6
	scanTitleMax       = 99
	scanTriggerMin     = 50
	scanJoinLines      = 10
	scanDescriptionMax = 1000
)

var (
	scanTitleBlocklist = []string{"LeetCode", "Sign in"}
	scanTriggers       = []string{"Given", "Return", "Find"}
)

// TextScanStrategy waits for late rendering, then scans body text lines
// heuristically for a title and a problem statement.
type TextScanStrategy struct {
	Delay time.Duration
}

// NewTextScanStrategy returns the strategy with the default settle delay.
func NewTextScanStrategy() *TextScanStrategy {
	return &TextScanStrategy{Delay: scanDelay}
}

func (s *TextScanStrategy) Name() string { return "text-scan" }

func (s *TextScanStrategy) Extract(ctx context.Context, page Page) (Result, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return Result{}, ctx.Err()
		case <-t.C:
		}
	}
	body, err := page.BodyText(ctx)
	if err != nil {
		return Result{}, err
	}
	return scanText(body), nil
}

func (s *TextScanStrategy) Accept(r Result) bool { return r.Found() }

// scanText applies the line heuristics to raw body text.
func scanText(body string) Result {
	var lines []string
	for _, l := range strings.Split(body, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	var r Result
	for i, l := range lines {
		if i >= scanTitleWindow {
			break
		}
		t := strings.TrimSpace(l)
		if n := runeLen(t); n < scanTitleMin || n > scanTitleMax {
			continue
		}
		if containsAny(t, scanTitleBlocklist) {
			continue
		}
		r.Title = t
		break
	}

	for i, l := range lines {
		t := strings.TrimSpace(l)
		if runeLen(t) <= scanTriggerMin || !containsAny(t, scanTriggers) {
			continue
		}
		end := min(i+scanJoinLines, len(lines))
		r.Description = truncateRunes(strings.Join(lines[i:end], " "), scanDescriptionMax)
		break
	}
	return r
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
