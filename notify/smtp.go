package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/use-agent/solvr/config"
	"github.com/wneessen/go-mail"
)

type preset struct {
	host string
	port int
}

// presets for the well-known providers EMAIL_SERVICE may name.
var presets = map[string]preset{
	"gmail":   {host: "smtp.gmail.com", port: 587},
	"outlook": {host: "smtp-mail.outlook.com", port: 587},
	"hotmail": {host: "smtp-mail.outlook.com", port: 587},
	"yahoo":   {host: "smtp.mail.yahoo.com", port: 587},
	"icloud":  {host: "smtp.mail.me.com", port: 587},
}

// SMTP delivers messages through an authenticated SMTP server.
type SMTP struct {
	host string
	opts []mail.Option
}

var _ Transport = (*SMTP)(nil)

// NewSMTP builds a transport from cfg. Host and Port override the preset
// named by Service.
func NewSMTP(cfg config.MailConfig) (*SMTP, error) {
	host, port := cfg.Host, cfg.Port
	if p, ok := presets[strings.ToLower(cfg.Service)]; ok {
		if host == "" {
			host = p.host
		}
		if port == 0 {
			port = p.port
		}
	}
	if host == "" {
		return nil, fmt.Errorf("unknown mail service %q and no SMTP host set", cfg.Service)
	}
	if port == 0 {
		port = 587
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTimeout(30 * time.Second),
	}
	if port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	// Validate options once up front.
	if _, err := mail.NewClient(host, opts...); err != nil {
		return nil, fmt.Errorf("configure smtp client: %w", err)
	}
	return &SMTP{host: host, opts: opts}, nil
}

// Host returns the SMTP server host.
func (s *SMTP) Host() string { return s.host }

// Send dials, delivers msg and disconnects.
func (s *SMTP) Send(ctx context.Context, msg *mail.Msg) (string, error) {
	client, err := mail.NewClient(s.host, s.opts...)
	if err != nil {
		return "", err
	}
	if msg.GetMessageID() == "" {
		msg.SetMessageID()
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", err
	}
	return msg.GetMessageID(), nil
}

// Verify dials and authenticates without sending.
func (s *SMTP) Verify(ctx context.Context) error {
	client, err := mail.NewClient(s.host, s.opts...)
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp connection test: %w", err)
	}
	return client.Close()
}
