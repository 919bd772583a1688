package solver

import (
	"encoding/json"
	"strings"

	"github.com/use-agent/solvr/models"
)

// ParseSolution decodes the first {...} span of a raw model response. An
// empty sourceUrl is filled with sourceURL.
func ParseSolution(raw, sourceURL string) (*models.Solution, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return nil, models.NewPipelineError(models.ErrCodeParse, "Unable to parse LLM response: no JSON object found", nil)
	}

	var sol models.Solution
	if err := json.Unmarshal([]byte(raw[start:end+1]), &sol); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeParse, "Unable to parse LLM response", err)
	}
	if sol.SourceURL == "" {
		sol.SourceURL = sourceURL
	}
	return &sol, nil
}
