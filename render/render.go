// Package render turns a Solution into a PDF artifact on local disk.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/use-agent/solvr/config"
	"github.com/use-agent/solvr/models"
)

// DateLayout formats the generation timestamp shown in documents.
const DateLayout = "January 2, 2006 at 03:04 PM"

//go:embed templates/solution.html
var templateFS embed.FS

var solutionTmpl = template.Must(
	template.New("solution.html").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		ParseFS(templateFS, "templates/solution.html"),
)

// Renderer produces a PDF for a solution.
type Renderer interface {
	Render(ctx context.Context, sol *models.Solution) (*models.Artifact, error)
}

// PDFPrinter prints an HTML document to PDF bytes. *scraper.Launcher
// satisfies it.
type PDFPrinter interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// New returns the renderer selected by cfg.Engine.
func New(cfg config.RenderConfig, printer PDFPrinter, logger *slog.Logger) (Renderer, error) {
	out := NewOutput(cfg.OutputDir)
	switch cfg.Engine {
	case "", "chrome":
		if printer == nil {
			return nil, fmt.Errorf("chrome render engine needs a printer")
		}
		return NewChrome(printer, out, logger), nil
	case "plain":
		return NewPlain(out, logger), nil
	default:
		return nil, fmt.Errorf("unknown render engine %q", cfg.Engine)
	}
}

type templateData struct {
	Solution    *models.Solution
	GeneratedAt string
}

// HTML renders the solution document as a standalone HTML page.
func HTML(sol *models.Solution, now time.Time) (string, error) {
	var buf bytes.Buffer
	if err := solutionTmpl.Execute(&buf, templateData{
		Solution:    sol,
		GeneratedAt: now.Format(DateLayout),
	}); err != nil {
		return "", fmt.Errorf("execute solution template: %w", err)
	}
	return buf.String(), nil
}

// Output names and writes artifacts in a directory. Names are
// solution_<unix-millis>.pdf and strictly increase within the process.
type Output struct {
	Dir  string
	last atomic.Int64
}

// NewOutput creates an Output for dir ("temp" when empty).
func NewOutput(dir string) *Output {
	if dir == "" {
		dir = "temp"
	}
	return &Output{Dir: dir}
}

// NextName returns a fresh artifact filename.
func (o *Output) NextName() string {
	for {
		last := o.last.Load()
		ms := time.Now().UnixMilli()
		if ms <= last {
			ms = last + 1
		}
		if o.last.CompareAndSwap(last, ms) {
			return fmt.Sprintf("solution_%d.pdf", ms)
		}
	}
}

// Write stores data under a fresh name.
func (o *Output) Write(data []byte) (*models.Artifact, error) {
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "create output directory", err)
	}
	name := o.NextName()
	path := filepath.Join(o.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "write pdf", err)
	}
	return &models.Artifact{Filename: name, Path: path, Size: int64(len(data))}, nil
}
