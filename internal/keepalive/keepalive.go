// Package keepalive pings the API's own health endpoint on a cron schedule
// so free-tier hosts that sleep idle services keep it awake.
package keepalive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
)

// pingTimeout bounds a single health request.
const pingTimeout = 10 * time.Second

// Pinger issues GET <base>/healthz on a standard five-field cron schedule.
type Pinger struct {
	cron   *cron.Cron
	target string
	client *http.Client
	logger *slog.Logger
}

// New schedules pings of apiBaseURL+"/healthz". The schedule is validated
// here; nothing runs until Start.
func New(apiBaseURL, schedule string, client *http.Client, logger *slog.Logger) (*Pinger, error) {
	if client == nil {
		client = &http.Client{Timeout: pingTimeout}
	}
	p := &Pinger{
		cron:   cron.New(),
		target: apiBaseURL + "/healthz",
		client: client,
		logger: logger,
	}
	if _, err := p.cron.AddFunc(schedule, p.run); err != nil {
		return nil, fmt.Errorf("keepalive: schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Target is the URL each ping requests.
func (p *Pinger) Target() string { return p.target }

// Start runs the schedule in the background.
func (p *Pinger) Start() {
	p.logger.Info("keep-alive scheduled", "target", p.target)
	p.cron.Start()
}

// Stop halts the schedule and waits for a ping in flight, or for ctx.
func (p *Pinger) Stop(ctx context.Context) {
	select {
	case <-p.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Ping performs one health request. Any non-2xx status is an error.
func (p *Pinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.target, nil)
	if err != nil {
		return fmt.Errorf("keepalive: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("keepalive: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("keepalive: %s answered %d", p.target, resp.StatusCode)
	}
	return nil
}

func (p *Pinger) run() {
	if err := p.Ping(context.Background()); err != nil {
		p.logger.Warn("keep-alive ping failed", "error", err)
		return
	}
	p.logger.Debug("keep-alive ping ok", "target", p.target)
}
