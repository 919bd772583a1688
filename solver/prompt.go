package solver

import (
	"fmt"
	"strings"

	"github.com/use-agent/solvr/models"
)

const promptTemplate = `You are an expert competitive programming instructor who writes C++ solutions.
Analyze the following %[1]s content and produce a complete, well-explained solution.

Content: %[2]s

Write every implementation in modern C++ (C++17 or later). Do not use any other language.

Cover:
1. Problem Statement: a clear description including constraints.
2. Problem Analysis: requirements, constraints and edge cases.
3. Three approaches with progressive optimization, named exactly %[3]s.

For each approach give the intuition, a step-by-step explanation, time and space
complexity with reasoning, a complete compilable C++ program (includes, a Solution
class where appropriate, a main function exercising it, comments), a walkthrough on
a concrete example, edge cases, and notes on what the next approach improves.

Respond with ONLY a JSON object matching this schema:
%[4]s
`

// BuildPrompt assembles the generation prompt for content of the given kind.
func BuildPrompt(content, problemType, sourceURL string) string {
	names := make([]string, len(models.ApproachNames))
	for i, n := range models.ApproachNames {
		names[i] = fmt.Sprintf("%q", n)
	}
	return fmt.Sprintf(promptTemplate,
		problemType,
		content,
		strings.Join(names, ", "),
		schema(sourceURL),
	)
}

func schema(sourceURL string) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	sb.WriteString(`  "problemStatement": "Detailed problem description with constraints",` + "\n")
	sb.WriteString(`  "problemAnalysis": "Requirements, constraints and key insights",` + "\n")
	fmt.Fprintf(&sb, "  \"sourceUrl\": %q,\n", sourceURL)
	sb.WriteString(`  "approaches": [` + "\n")
	for i, name := range models.ApproachNames {
		fmt.Fprintf(&sb, `    {
      "name": %q,
      "intuition": "Core insight behind this approach",
      "explanation": "Step-by-step algorithm",
      "timeComplexity": "Big-O with reasoning",
      "spaceComplexity": "Big-O with reasoning",
      "code": "Complete compilable C++ program",
      "walkthrough": "Trace on a concrete example",
      "edgeCases": "Edge cases and how they are handled",
      "optimizationNotes": "What improves on the previous approach"
    }`, name)
		if i < len(models.ApproachNames)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  ],\n")
	sb.WriteString(`  "keyInsights": "Most important algorithmic insights",` + "\n")
	sb.WriteString(`  "relatedTopics": ["Topic"],` + "\n")
	sb.WriteString(`  "testCases": [{"input": "Sample input", "output": "Expected output", "explanation": "Why"}],` + "\n")
	sb.WriteString(`  "practiceProblems": ["Similar problem"]` + "\n")
	sb.WriteString("}")
	return sb.String()
}
