package render

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/jung-kurt/gofpdf"
	"github.com/use-agent/solvr/models"
)

// Plain renders without a browser: the HTML template is converted to
// Markdown and laid out line by line with gofpdf core fonts.
type Plain struct {
	conv   *converter.Converter
	out    *Output
	logger *slog.Logger
}

var _ Renderer = (*Plain)(nil)

func NewPlain(out *Output, logger *slog.Logger) *Plain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Plain{conv: newMarkdownConverter(), out: out, logger: logger}
}

// newMarkdownConverter strips non-content tags and keeps tables.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

func (p *Plain) Render(ctx context.Context, sol *models.Solution) (*models.Artifact, error) {
	start := time.Now()
	html, err := HTML(sol, start)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeInternal, "render html", err)
	}
	md, err := p.conv.ConvertString(html)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeInternal, "convert html to markdown", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := markdownPDF(md)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "write pdf", err)
	}
	a, err := p.out.Write(data)
	if err != nil {
		return nil, err
	}
	p.logger.Info("pdf rendered",
		"engine", "plain",
		"file", a.Filename,
		"size", a.Size,
		"duration", time.Since(start),
	)
	return a, nil
}

// markdownPDF lays out Markdown as an A4 PDF: headings in bold, fenced code
// in Courier, everything else as wrapped paragraphs.
func markdownPDF(markdown string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	inCode := false
	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		s := strings.TrimSpace(line)

		if strings.HasPrefix(s, "```") {
			inCode = !inCode
			if inCode {
				pdf.SetFont("Courier", "", 9)
				pdf.SetFillColor(240, 240, 240)
			} else {
				pdf.SetFont("Helvetica", "", 11)
				pdf.Ln(2)
			}
			continue
		}
		if inCode {
			pdf.MultiCell(0, 4, tr(strings.ReplaceAll(line, "\t", "    ")), "", "L", true)
			continue
		}
		if s == "" {
			pdf.Ln(3)
			continue
		}
		if strings.HasPrefix(s, "#") {
			level := 0
			for level < len(s) && s[level] == '#' {
				level++
			}
			text := strings.TrimSpace(s[level:])
			if text == "" {
				continue
			}
			size := 16.0
			switch {
			case level == 2:
				size = 14
			case level >= 3:
				size = 12
			}
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", size)
			pdf.MultiCell(0, 7, tr(text), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		pdf.MultiCell(0, 5, tr(stripEmphasis(s)), "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stripEmphasis(s string) string {
	return strings.NewReplacer("**", "", "__", "").Replace(s)
}
