package scraper

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod/lib/proto"
	"github.com/use-agent/solvr/models"
	"github.com/ysmood/gson"
)

// A4 in inches; margins are 20 CSS pixels.
const (
	a4Width  = 8.27
	a4Height = 11.69
	margin   = 20.0 / 96.0
)

// PrintPDF renders an HTML document to an A4 PDF in a fresh browser.
func (l *Launcher) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	b, err := l.launch(ctx)
	if err != nil {
		return nil, err
	}
	defer b.close()

	page, err := b.rod.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, categorizeError(err, "failed to create page")
	}
	p := page.Context(ctx)

	if err := p.SetDocumentContent(html); err != nil {
		return nil, categorizeError(err, "failed to set document content")
	}
	if err := p.WaitLoad(); err != nil {
		l.logger.Debug("WaitLoad failed, printing current document", "error", err)
	}

	stream, err := p.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      gson.Num(a4Width),
		PaperHeight:     gson.Num(a4Height),
		MarginTop:       gson.Num(margin),
		MarginBottom:    gson.Num(margin),
		MarginLeft:      gson.Num(margin),
		MarginRight:     gson.Num(margin),
	})
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "print to pdf failed", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "read pdf stream", err)
	}
	if len(data) == 0 {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "print to pdf returned no data", fmt.Errorf("empty pdf"))
	}
	return data, nil
}
