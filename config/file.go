package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML document at path onto c. Keys absent from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate reports settings the pipeline cannot run without.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	switch c.Render.Engine {
	case "chrome", "plain":
	default:
		return fmt.Errorf("unknown render engine %q", c.Render.Engine)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("llm api key is not set (GEMINI_API_KEY, OPENAI_API_KEY or SOLVR_LLM_API_KEY)")
	}
	if c.Mail.Recipient == "" {
		return fmt.Errorf("recipient is not set (USER_EMAIL or SOLVR_RECIPIENT)")
	}
	return nil
}
