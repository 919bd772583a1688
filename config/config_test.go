package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 8192, cfg.LLM.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.Pipeline.CleanupDelay)
	assert.Equal(t, 60*time.Second, cfg.Scraper.NavigationTimeout)
	assert.Equal(t, "chrome", cfg.Render.Engine)
	assert.True(t, cfg.Server.DocAPI)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_BareEnvNames(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("EMAIL_SERVICE", "Outlook")
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("USER_EMAIL", "me@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
	assert.Equal(t, "outlook", cfg.Mail.Service)
	assert.Equal(t, "bot@example.com", cfg.Mail.User)
	assert.Equal(t, "secret", cfg.Mail.Password)
	assert.Equal(t, "me@example.com", cfg.Mail.Recipient)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PrefixedEnvWins(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("SOLVR_PORT", "5000")
	t.Setenv("SOLVR_LLM_PROVIDER", "OpenAI")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("SOLVR_JOB_TIMEOUT", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "o-key", cfg.LLM.APIKey)
	assert.Equal(t, 90*time.Second, cfg.Pipeline.JobTimeout)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solvr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8081
render:
  engine: plain
pipeline:
  cleanupDelay: 5s
mail:
  recipient: file@example.com
`), 0o600))
	t.Setenv("SOLVR_CONFIG", path)
	t.Setenv("USER_EMAIL", "env@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "plain", cfg.Render.Engine)
	assert.Equal(t, 5*time.Second, cfg.Pipeline.CleanupDelay)
	assert.Equal(t, "env@example.com", cfg.Mail.Recipient)
	// untouched keys keep defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 10*time.Minute, cfg.Pipeline.JobTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("SOLVR_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	assert.Error(t, cfg.Validate(), "missing api key")

	cfg.LLM.APIKey = "k"
	assert.Error(t, cfg.Validate(), "missing recipient")

	cfg.Mail.Recipient = "me@example.com"
	assert.NoError(t, cfg.Validate())

	cfg.Render.Engine = "latex"
	assert.Error(t, cfg.Validate())
}

func TestEnvSliceOr(t *testing.T) {
	t.Setenv("SOLVR_TEST_SLICE", " Image, ,Font ")

	assert.Equal(t, []string{"Image", "Font"}, envSliceOr("SOLVR_TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, envSliceOr("SOLVR_TEST_UNSET", []string{"x"}))
}
