// Package notify delivers free-text alerts to the persona's owner.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alterego/internal/config"
	"alterego/internal/logging"
)

// Notifier delivers a message.
type Notifier interface {
	Push(ctx context.Context, message string) error
}

// ErrNotConfigured is returned by PushoverNotifier without credentials.
var ErrNotConfigured = errors.New("pushover credentials not configured")

// PushoverNotifier posts messages to the Pushover API.
type PushoverNotifier struct {
	user       string
	token      string
	url        string
	httpClient *http.Client
}

// NewPushoverNotifier creates a notifier from config.
func NewPushoverNotifier(cfg config.PushoverConfig) *PushoverNotifier {
	endpoint := cfg.URL
	if endpoint == "" {
		endpoint = config.DefaultPushoverURL
	}
	return &PushoverNotifier{
		user:       cfg.User,
		token:      cfg.Token,
		url:        endpoint,
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
	}
}

// Push sends message as form fields user, token and message.
func (p *PushoverNotifier) Push(ctx context.Context, message string) error {
	if p.user == "" || p.token == "" {
		return ErrNotConfigured
	}

	form := url.Values{}
	form.Set("user", p.user)
	form.Set("token", p.token)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("pushover returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// LogNotifier drops messages after logging them. Used when Pushover is not configured.
type LogNotifier struct{}

// Push logs message.
func (LogNotifier) Push(_ context.Context, message string) error {
	logging.NotifyWarn("Not delivered (no sink configured): %s", message)
	return nil
}

// FromConfig returns a PushoverNotifier when credentials are set, otherwise a LogNotifier.
func FromConfig(cfg config.NotifyConfig) Notifier {
	if cfg.Pushover.Enabled() {
		return NewPushoverNotifier(cfg.Pushover)
	}
	logging.NotifyWarn("Pushover not configured; notifications will only be logged")
	return LogNotifier{}
}

// Recorder turns visitor events into notifications. Delivery is synchronous:
// each Record call waits for the push, bounded by the caller's context and a
// 15s timeout, so an HTTP handler blocks until the sink answers. Failures are
// logged and never returned.
type Recorder struct {
	notifier Notifier
	timeout  time.Duration
}

// NewRecorder creates a Recorder.
func NewRecorder(n Notifier) *Recorder {
	return &Recorder{notifier: n, timeout: 15 * time.Second}
}

// RecordUserDetails notes a visitor who left contact details.
func (r *Recorder) RecordUserDetails(ctx context.Context, email, name, notes string) map[string]string {
	if name == "" {
		name = "Name not provided"
	}
	if notes == "" {
		notes = "not provided"
	}
	r.push(ctx, fmt.Sprintf("Recording interest from %s with email %s and notes %s", name, email, notes))
	return map[string]string{"recorded": "ok"}
}

// RecordUnknownQuestion notes a question the persona could not answer.
func (r *Recorder) RecordUnknownQuestion(ctx context.Context, question string) map[string]string {
	r.push(ctx, fmt.Sprintf("Recording %s asked that I couldn't answer", question))
	return map[string]string{"recorded": "ok"}
}

func (r *Recorder) push(ctx context.Context, message string) {
	logging.Notify("Push: %s", message)
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	if err := r.notifier.Push(ctx, message); err != nil {
		logging.NotifyError("Push failed: %v", err)
	}
}
