package models

import "encoding/json"

// DefaultSolutionTitle is used wherever a solution has no problem statement.
const DefaultSolutionTitle = "Coding Problem Solution"

// Approach names the LLM is instructed to produce, in order.
var ApproachNames = []string{"Brute Force", "Better Approach", "Optimal Approach"}

// Solution is the structured multi-approach answer produced by the LLM.
type Solution struct {
	ProblemStatement string     `json:"problemStatement"`
	ProblemAnalysis  string     `json:"problemAnalysis"`
	SourceURL        string     `json:"sourceUrl"`
	Approaches       []Approach `json:"approaches"`
	KeyInsights      string     `json:"keyInsights"`
	RelatedTopics    []string   `json:"relatedTopics"`
	TestCases        []TestCase `json:"testCases"`
	PracticeProblems []string   `json:"practiceProblems"`
}

// Approach is one of the three solution strategies.
type Approach struct {
	Name              string `json:"name"`
	Intuition         string `json:"intuition"`
	Explanation       string `json:"explanation"`
	TimeComplexity    string `json:"timeComplexity"`
	SpaceComplexity   string `json:"spaceComplexity"`
	Code              string `json:"code"`
	Walkthrough       string `json:"walkthrough"`
	EdgeCases         string `json:"edgeCases"`
	OptimizationNotes string `json:"optimizationNotes"`
}

// UnmarshalJSON also accepts the older "cppCode" key for Code.
func (a *Approach) UnmarshalJSON(data []byte) error {
	type plain Approach
	var aux struct {
		plain
		CppCode string `json:"cppCode"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Approach(aux.plain)
	if a.Code == "" {
		a.Code = aux.CppCode
	}
	return nil
}

// TestCase is a worked input/output example.
type TestCase struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation"`
}

// Title returns the problem statement, or DefaultSolutionTitle when empty.
func (s *Solution) Title() string {
	if s == nil || s.ProblemStatement == "" {
		return DefaultSolutionTitle
	}
	return s.ProblemStatement
}
