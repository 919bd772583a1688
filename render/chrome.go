package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/solvr/models"
)

// Chrome prints the HTML template through a headless browser.
type Chrome struct {
	printer PDFPrinter
	out     *Output
	logger  *slog.Logger
}

var _ Renderer = (*Chrome)(nil)

func NewChrome(printer PDFPrinter, out *Output, logger *slog.Logger) *Chrome {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chrome{printer: printer, out: out, logger: logger}
}

func (c *Chrome) Render(ctx context.Context, sol *models.Solution) (*models.Artifact, error) {
	start := time.Now()
	html, err := HTML(sol, start)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeInternal, "render html", err)
	}
	data, err := c.printer.PrintPDF(ctx, html)
	if err != nil {
		return nil, err
	}
	a, err := c.out.Write(data)
	if err != nil {
		return nil, err
	}
	c.logger.Info("pdf rendered",
		"engine", "chrome",
		"file", a.Filename,
		"size", a.Size,
		"duration", time.Since(start),
	)
	return a, nil
}
