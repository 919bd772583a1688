package extractor

import (
	"fmt"
	"strings"
)

const unknownProblem = "Unknown Problem"

// ProblemName derives a readable name from a LeetCode problem URL slug,
// e.g. ".../problems/two-sum/" → "two sum".
func ProblemName(url string) string {
	_, after, ok := strings.Cut(url, "/problems/")
	if !ok {
		return unknownProblem
	}
	slug, _, _ := strings.Cut(after, "/")
	slug, _, _ = strings.Cut(slug, "?")
	slug, _, _ = strings.Cut(slug, "#")
	if slug == "" {
		return unknownProblem
	}
	return strings.ReplaceAll(slug, "-", " ")
}

// FallbackContent is handed to the LLM when nothing could be read from the
// page; it asks for a solution from the problem name alone.
func FallbackContent(url string) string {
	return fmt.Sprintf(`Problem: %s

This is a LeetCode problem. The problem statement could not be extracted from the page.
Please provide a comprehensive solution for this problem based on its name:
- Infer the most likely problem statement and constraints
- Explain the approach step by step
- Provide C++ code for each approach
- Analyze time and space complexity

URL: %s`, ProblemName(url), url)
}
