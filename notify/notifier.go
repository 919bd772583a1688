// Package notify emails rendered solution documents.
package notify

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/use-agent/solvr/models"
	"github.com/wneessen/go-mail"
)

// SubjectPrefix starts every delivery subject line.
const SubjectPrefix = "C++ Solution: "

//go:embed templates/email.html
var templateFS embed.FS

var bodyTmpl = template.Must(template.ParseFS(templateFS, "templates/email.html"))

// Transport hands a composed message to a mail server and returns its
// Message-ID.
type Transport interface {
	Send(ctx context.Context, msg *mail.Msg) (string, error)
	Verify(ctx context.Context) error
}

// Notifier composes and sends solution emails.
type Notifier struct {
	transport Transport
	fromName  string
	fromAddr  string
	now       func() time.Time
	logger    *slog.Logger
}

// NewNotifier creates a Notifier sending as "fromName <fromAddr>".
func NewNotifier(transport Transport, fromName, fromAddr string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		transport: transport,
		fromName:  fromName,
		fromAddr:  fromAddr,
		now:       time.Now,
		logger:    logger,
	}
}

// Sanitize replaces every rune outside [A-Za-z0-9] with '_'.
func Sanitize(title string) string {
	out := []rune(title)
	for i, r := range out {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			out[i] = '_'
		}
	}
	return string(out)
}

// AttachmentName is the filename the recipient sees for a document.
func AttachmentName(title string) string {
	return Sanitize(title) + "_Solution.pdf"
}

// Send emails the document at documentPath to recipient. A missing file is
// a NOT_FOUND error and nothing is sent.
func (n *Notifier) Send(ctx context.Context, recipient, documentPath, title string) (*models.Delivery, error) {
	if _, err := os.Stat(documentPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.NewPipelineError(models.ErrCodeNotFound, "PDF file not found: "+documentPath, err)
		}
		return nil, models.NewPipelineError(models.ErrCodeTransport, "stat pdf", err)
	}

	msg, err := n.compose(recipient, documentPath, title)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	id, err := n.transport.Send(ctx, msg)
	if err != nil {
		return nil, models.NewPipelineError(models.ErrCodeTransport, "send email", err)
	}
	n.logger.Info("email sent",
		"to", recipient,
		"messageID", id,
		"duration", time.Since(start),
	)
	return &models.Delivery{Success: true, MessageID: id, Message: "Email sent successfully"}, nil
}

func (n *Notifier) compose(recipient, documentPath, title string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(n.fromName, n.fromAddr); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeInvalidInput, "invalid sender address", err)
	}
	if err := msg.To(recipient); err != nil {
		return nil, models.NewPipelineError(models.ErrCodeInvalidInput, "invalid recipient address", err)
	}
	msg.Subject(SubjectPrefix + title)

	var body bytes.Buffer
	if err := bodyTmpl.Execute(&body, struct {
		Title       string
		Approaches  []string
		GeneratedAt string
	}{
		Title:       title,
		Approaches:  models.ApproachNames,
		GeneratedAt: n.now().Format("January 2, 2006 at 03:04 PM"),
	}); err != nil {
		return nil, fmt.Errorf("execute email template: %w", err)
	}
	msg.SetBodyString(mail.TypeTextHTML, body.String())
	msg.AttachFile(documentPath,
		mail.WithFileName(AttachmentName(title)),
		mail.WithFileContentType(mail.ContentType("application/pdf")),
	)
	return msg, nil
}

// Verify checks the transport can reach its server.
func (n *Notifier) Verify(ctx context.Context) error {
	return n.transport.Verify(ctx)
}
