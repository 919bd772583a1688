// Package scraper drives a headless Chromium through go-rod. Every job gets
// its own browser process, which is torn down when the job's session ends.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/use-agent/solvr/config"
	"github.com/use-agent/solvr/extractor"
	"github.com/use-agent/solvr/fetch"
	"github.com/use-agent/solvr/models"
)

// Launcher starts browsers configured for scraping and printing.
// It holds no browser itself and is safe for concurrent use.
type Launcher struct {
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig
	logger     *slog.Logger
}

var _ extractor.Opener = (*Launcher)(nil)

// NewLauncher creates a Launcher. A nil logger uses slog.Default().
func NewLauncher(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	if browserCfg.UserAgent == "" {
		browserCfg.UserAgent = fetch.DefaultUserAgent
	}
	return &Launcher{browserCfg: browserCfg, scraperCfg: scraperCfg, logger: logger}
}

// browser is one launched Chromium process plus its CDP connection.
type browser struct {
	rod       *rod.Browser
	launcher  *launcher.Launcher
	logger    *slog.Logger
	closeOnce sync.Once
}

// launch starts a new Chromium process and connects to it.
func (l *Launcher) launch(ctx context.Context) (*browser, error) {
	ln := launcher.New().
		Context(ctx).
		Headless(l.browserCfg.Headless).
		NoSandbox(l.browserCfg.NoSandbox)

	if l.browserCfg.BrowserBin != "" {
		ln = ln.Bin(l.browserCfg.BrowserBin)
	}
	if l.browserCfg.Proxy != "" {
		ln = ln.Proxy(l.browserCfg.Proxy)
	}

	// ── Stealth and container flags ─────────────────────────────────
	ln.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	ln.Delete(flags.Flag("enable-automation"))
	ln.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	ln.Set(flags.Flag("disable-setuid-sandbox"))
	ln.Set(flags.Flag("disable-dev-shm-usage"))
	ln.Set(flags.Flag("disable-accelerated-2d-canvas"))
	ln.Set(flags.Flag("disable-gpu"))
	ln.Set(flags.Flag("disable-web-security"))
	ln.Set(flags.Flag("disable-popup-blocking"))
	ln.Set(flags.Flag("disable-component-update"))
	ln.Set(flags.Flag("disable-default-apps"))
	ln.Set(flags.Flag("disable-extensions"))
	ln.Set(flags.Flag("no-first-run"))
	ln.Set(flags.Flag("no-zygote"))

	controlURL, err := ln.Launch()
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	l.logger.Debug("browser launched", "controlURL", controlURL)

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		ln.Kill()
		return nil, models.NewPipelineError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}
	return &browser{rod: b, launcher: ln, logger: l.logger}, nil
}

// close disconnects and kills the process. Safe to call more than once.
func (b *browser) close() {
	b.closeOnce.Do(func() {
		if err := b.rod.Close(); err != nil && !errors.Is(err, context.Canceled) {
			b.logger.Debug("browser close failed, killing process", "error", err)
		}
		b.launcher.Kill()
		b.launcher.Cleanup()
		b.logger.Debug("browser closed")
	})
}

// categorizeError wraps raw errors into typed PipelineErrors.
func categorizeError(err error, msg string) *models.PipelineError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewPipelineError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewPipelineError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewPipelineError(models.ErrCodeNavigation, msg, err)
	}
}
