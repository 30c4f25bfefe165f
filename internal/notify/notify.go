// Package notify renders the trip e-mails and hands them to a Transport.
// Send awaits one delivery; Broadcast fans a template out to many recipients
// and waits for every delivery to settle.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names one of the e-mails this package can render.
type Template string

const (
	// TripConfirmation is sent to the owner after a trip is created.
	TripConfirmation Template = "trip-confirmation"
	// Invite asks a participant to confirm their presence.
	Invite Template = "invite"
	// Cancellation tells a participant their invite or trip was canceled.
	Cancellation Template = "cancellation"
)

var subjects = map[Template]string{
	TripConfirmation: "Confirme sua viagem para %s em %s",
	Invite:           "Confirme sua presença na viagem para %s em %s",
	Cancellation:     "Houve um cancelamento na sua viagem para %s em %s",
}

// DefaultConcurrency bounds how many deliveries Broadcast runs at once.
const DefaultConcurrency = 8

// Substitutions are the values a template is rendered with.
type Substitutions struct {
	Destination      string
	StartsAt         time.Time
	EndsAt           time.Time
	ConfirmationLink string
}

// Message is a rendered e-mail ready for a Transport.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport delivers a rendered message.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// Delivery is one recipient of a Broadcast.
type Delivery struct {
	To   string
	Subs Substitutions
}

// Report counts the outcome of a Broadcast.
type Report struct {
	Sent   int
	Failed int
}

// Notifier renders templates in one locale and delivers them through a Transport.
type Notifier struct {
	transport   Transport
	dates       *DateFormatter
	templates   map[Template]*template.Template
	logger      *slog.Logger
	concurrency int
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithConcurrency sets how many Broadcast deliveries may run at once.
func WithConcurrency(n int) Option {
	return func(nt *Notifier) {
		if n > 0 {
			nt.concurrency = n
		}
	}
}

// New parses the embedded templates and returns a Notifier. locale names the
// language used for long dates, e.g. "pt_BR".
func New(transport Transport, locale string, logger *slog.Logger, opts ...Option) (*Notifier, error) {
	dates, err := NewDateFormatter(locale)
	if err != nil {
		return nil, fmt.Errorf("notify.New: %w", err)
	}

	templates := make(map[Template]*template.Template, len(subjects))
	for name := range subjects {
		t, err := template.ParseFS(templateFS, "templates/"+string(name)+".html")
		if err != nil {
			return nil, fmt.Errorf("notify.New: parse %s: %w", name, err)
		}
		templates[name] = t
	}

	n := &Notifier{
		transport:   transport,
		dates:       dates,
		templates:   templates,
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Render produces the message for tmpl without sending it.
func (n *Notifier) Render(tmpl Template, to string, subs Substitutions) (Message, error) {
	t, ok := n.templates[tmpl]
	if !ok {
		return Message{}, fmt.Errorf("notify.Render: unknown template %q", tmpl)
	}

	start := n.dates.Long(subs.StartsAt)
	data := struct {
		Destination      string
		StartsAt         string
		EndsAt           string
		ConfirmationLink template.URL
	}{
		Destination: subs.Destination,
		StartsAt:    start,
		EndsAt:      n.dates.Long(subs.EndsAt),
		// Links are built by the services from configured base URLs.
		ConfirmationLink: template.URL(subs.ConfirmationLink),
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("notify.Render: execute %s: %w", tmpl, err)
	}

	return Message{
		To:      to,
		Subject: fmt.Sprintf(subjects[tmpl], subs.Destination, start),
		HTML:    body.String(),
	}, nil
}

// Send renders tmpl for one recipient and waits for the transport.
// Failures are logged and returned.
func (n *Notifier) Send(ctx context.Context, tmpl Template, to string, subs Substitutions) error {
	msg, err := n.Render(tmpl, to, subs)
	if err != nil {
		return err
	}
	if err := n.transport.Deliver(ctx, msg); err != nil {
		n.logger.WarnContext(ctx, "mail delivery failed",
			"template", string(tmpl),
			"to", to,
			"error", err,
		)
		return fmt.Errorf("notify.Send: %w", err)
	}
	return nil
}

// Broadcast sends tmpl to every delivery concurrently and returns once all
// of them have settled. One failure never stops the others.
func (n *Notifier) Broadcast(ctx context.Context, tmpl Template, deliveries []Delivery) Report {
	var (
		g            errgroup.Group
		sent, failed atomic.Int64
	)
	g.SetLimit(n.concurrency)

	for _, d := range deliveries {
		g.Go(func() error {
			if err := n.Send(ctx, tmpl, d.To, d.Subs); err != nil {
				failed.Add(1)
				return nil
			}
			sent.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Sent: int(sent.Load()), Failed: int(failed.Load())}
	if report.Failed > 0 {
		n.logger.WarnContext(ctx, "broadcast finished with failures",
			"template", string(tmpl),
			"sent", report.Sent,
			"failed", report.Failed,
		)
	}
	return report
}
