package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// SMTPConfig holds what SMTPTransport needs to reach a relay.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
}

// SMTPTransport delivers messages through an SMTP relay.
// A fresh client is dialed per message so concurrent Broadcast deliveries
// never share a connection.
type SMTPTransport struct {
	cfg  SMTPConfig
	opts []mail.Option
}

// NewSMTPTransport validates cfg and returns a transport for it.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, errors.New("notify.NewSMTPTransport: host is required")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("notify.NewSMTPTransport: from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return &SMTPTransport{cfg: cfg, opts: opts}, nil
}

func (t *SMTPTransport) Deliver(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(t.cfg.FromName, t.cfg.FromAddress); err != nil {
		return fmt.Errorf("smtp: from: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("smtp: to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	client, err := mail.NewClient(t.cfg.Host, t.opts...)
	if err != nil {
		return fmt.Errorf("smtp: client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp: send: %w", err)
	}
	return nil
}

// LogTransport writes messages to the logger instead of sending them.
// It is the transport when no SMTP host is configured.
type LogTransport struct {
	logger *slog.Logger
}

func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Deliver(ctx context.Context, m Message) error {
	t.logger.InfoContext(ctx, "mail",
		"to", m.To,
		"subject", m.Subject,
		"html", m.HTML,
	)
	return nil
}
