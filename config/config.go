package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Browser   BrowserConfig   `yaml:"browser"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	LLM       LLMConfig       `yaml:"llm"`
	Render    RenderConfig    `yaml:"render"`
	Mail      MailConfig      `yaml:"mail"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host    string `yaml:"host"`    // default: "0.0.0.0"
	Port    int    `yaml:"port"`    // default: 3000
	Mode    string `yaml:"mode"`    // "debug", "release", "test"; default: "release"
	Service string `yaml:"service"` // reported by /health; default: "solvr"
	Version string `yaml:"version"` // reported by /health; default: "1.0.0"

	// DocAPI mounts POST /api/generate-doc.
	DocAPI bool `yaml:"docAPI"` // default: true

	// CORSOrigins lists allowed origins; empty or "*" allows all.
	CORSOrigins []string `yaml:"corsOrigins"`
}

// BrowserConfig controls the Chromium processes launched per job.
type BrowserConfig struct {
	Headless   bool   `yaml:"headless"`  // default: true
	NoSandbox  bool   `yaml:"noSandbox"` // default: true (needed in Docker)
	BrowserBin string `yaml:"browserBin"`
	Proxy      string `yaml:"proxy"`

	// UserAgent overrides the Chrome desktop user agent.
	UserAgent string `yaml:"userAgent"`
}

// ScraperConfig controls page loading for extraction.
type ScraperConfig struct {
	// NavigationTimeout bounds page.Navigate plus the DOM stability wait.
	NavigationTimeout time.Duration `yaml:"navigationTimeout"` // default: 60s

	// SettleDelay is the pause after load before the page is handed out.
	SettleDelay time.Duration `yaml:"settleDelay"` // default: 3s

	// BlockedResourceTypes lists resource types to block.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string `yaml:"blockedResourceTypes"`
}

// LLMConfig selects and tunes the solution generator.
type LLMConfig struct {
	Provider    string        `yaml:"provider"` // "gemini" or "openai"; default: "gemini"
	Model       string        `yaml:"model"`    // default per provider
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseURL"` // OpenAI-compatible endpoints only
	Temperature float64       `yaml:"temperature"`
	TopK        float64       `yaml:"topK"`
	TopP        float64       `yaml:"topP"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RenderConfig controls PDF generation.
type RenderConfig struct {
	// Engine is "chrome" (HTML printed by Chromium) or "plain" (gofpdf).
	Engine    string `yaml:"engine"`    // default: "chrome"
	OutputDir string `yaml:"outputDir"` // default: "temp"
}

// MailConfig controls SMTP delivery.
type MailConfig struct {
	// Service is a provider preset: gmail, outlook, yahoo, icloud.
	// Host and Port override the preset when set.
	Service  string `yaml:"service"` // default: "gmail"
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	FromName string `yaml:"fromName"`

	// Recipient receives every generated solution.
	Recipient string `yaml:"recipient"`

	// VerifyOnStart dials the SMTP server once at startup.
	VerifyOnStart bool `yaml:"verifyOnStart"` // default: true
}

// PipelineConfig controls background jobs.
type PipelineConfig struct {
	CleanupDelay time.Duration `yaml:"cleanupDelay"` // default: 60s
	JobTimeout   time.Duration `yaml:"jobTimeout"`   // default: 10m
}

// RateLimitConfig controls per-IP rate limiting of the process endpoint.
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled"` // default: false
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "info"
	Format string `yaml:"format"` // "json" or "text"; default: "json"
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    3000,
			Mode:    "release",
			Service: "solvr",
			Version: "1.0.0",
			DocAPI:  true,
		},
		Browser: BrowserConfig{
			Headless:  true,
			NoSandbox: true,
		},
		Scraper: ScraperConfig{
			NavigationTimeout:    60 * time.Second,
			SettleDelay:          3 * time.Second,
			BlockedResourceTypes: []string{"Image", "Font", "Media"},
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Temperature: 0.2,
			TopK:        40,
			TopP:        0.95,
			MaxTokens:   8192,
			Timeout:     5 * time.Minute,
		},
		Render: RenderConfig{
			Engine:    "chrome",
			OutputDir: "temp",
		},
		Mail: MailConfig{
			Service:       "gmail",
			FromName:      "LeetCode Solution Generator",
			VerifyOnStart: true,
		},
		Pipeline: PipelineConfig{
			CleanupDelay: 60 * time.Second,
			JobTimeout:   10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// SOLVR_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("SOLVR_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides fields from the environment. Bare names (PORT,
// GEMINI_API_KEY, EMAIL_USER, ...) are accepted for existing deployments;
// the SOLVR_ prefixed name wins when both are set.
func (c *Config) applyEnv() {
	c.Server.Host = envOr("SOLVR_HOST", c.Server.Host)
	c.Server.Port = envIntOr("SOLVR_PORT", envIntOr("PORT", c.Server.Port))
	c.Server.Mode = envOr("SOLVR_MODE", c.Server.Mode)
	c.Server.Version = envOr("SOLVR_VERSION", c.Server.Version)
	c.Server.DocAPI = envBoolOr("SOLVR_DOC_API", c.Server.DocAPI)
	c.Server.CORSOrigins = envSliceOr("SOLVR_CORS_ORIGINS", c.Server.CORSOrigins)

	c.Browser.Headless = envBoolOr("SOLVR_HEADLESS", c.Browser.Headless)
	c.Browser.NoSandbox = envBoolOr("SOLVR_NO_SANDBOX", c.Browser.NoSandbox)
	c.Browser.BrowserBin = envOr("SOLVR_BROWSER_BIN", c.Browser.BrowserBin)
	c.Browser.Proxy = envOr("SOLVR_PROXY", c.Browser.Proxy)
	c.Browser.UserAgent = envOr("SOLVR_USER_AGENT", c.Browser.UserAgent)

	c.Scraper.NavigationTimeout = envDurationOr("SOLVR_NAV_TIMEOUT", c.Scraper.NavigationTimeout)
	c.Scraper.SettleDelay = envDurationOr("SOLVR_SETTLE_DELAY", c.Scraper.SettleDelay)
	c.Scraper.BlockedResourceTypes = envSliceOr("SOLVR_BLOCKED_RESOURCES", c.Scraper.BlockedResourceTypes)

	c.LLM.Provider = strings.ToLower(envOr("SOLVR_LLM_PROVIDER", c.LLM.Provider))
	c.LLM.Model = envOr("SOLVR_LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = envOr("SOLVR_LLM_BASE_URL", envOr("OPENAI_BASE_URL", c.LLM.BaseURL))
	c.LLM.Temperature = envFloatOr("SOLVR_LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.TopK = envFloatOr("SOLVR_LLM_TOP_K", c.LLM.TopK)
	c.LLM.TopP = envFloatOr("SOLVR_LLM_TOP_P", c.LLM.TopP)
	c.LLM.MaxTokens = envIntOr("SOLVR_LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Timeout = envDurationOr("SOLVR_LLM_TIMEOUT", c.LLM.Timeout)
	providerKey := "GEMINI_API_KEY"
	if c.LLM.Provider == "openai" {
		providerKey = "OPENAI_API_KEY"
	}
	c.LLM.APIKey = envFirst(c.LLM.APIKey, "SOLVR_LLM_API_KEY", providerKey)

	c.Render.Engine = strings.ToLower(envOr("SOLVR_RENDER_ENGINE", c.Render.Engine))
	c.Render.OutputDir = envOr("SOLVR_OUTPUT_DIR", c.Render.OutputDir)

	c.Mail.Service = strings.ToLower(envFirst(c.Mail.Service, "SOLVR_MAIL_SERVICE", "EMAIL_SERVICE"))
	c.Mail.Host = envFirst(c.Mail.Host, "SOLVR_SMTP_HOST", "EMAIL_HOST")
	c.Mail.Port = envIntOr("SOLVR_SMTP_PORT", envIntOr("EMAIL_PORT", c.Mail.Port))
	c.Mail.User = envFirst(c.Mail.User, "SOLVR_MAIL_USER", "EMAIL_USER")
	c.Mail.Password = envFirst(c.Mail.Password, "SOLVR_MAIL_PASSWORD", "EMAIL_PASS")
	c.Mail.FromName = envOr("SOLVR_MAIL_FROM_NAME", c.Mail.FromName)
	c.Mail.Recipient = envFirst(c.Mail.Recipient, "SOLVR_RECIPIENT", "USER_EMAIL")
	c.Mail.VerifyOnStart = envBoolOr("SOLVR_MAIL_VERIFY", c.Mail.VerifyOnStart)

	c.Pipeline.CleanupDelay = envDurationOr("SOLVR_CLEANUP_DELAY", c.Pipeline.CleanupDelay)
	c.Pipeline.JobTimeout = envDurationOr("SOLVR_JOB_TIMEOUT", c.Pipeline.JobTimeout)

	c.RateLimit.Enabled = envBoolOr("SOLVR_RATE_LIMIT", c.RateLimit.Enabled)
	c.RateLimit.RequestsPerSecond = envFloatOr("SOLVR_RATE_RPS", c.RateLimit.RequestsPerSecond)
	c.RateLimit.Burst = envIntOr("SOLVR_RATE_BURST", c.RateLimit.Burst)

	c.Log.Level = envOr("SOLVR_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("SOLVR_LOG_FORMAT", c.Log.Format)
}

// --- helper functions ---

// envFirst returns the first non-empty variable among keys, or fallback.
func envFirst(fallback string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return fallback
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
