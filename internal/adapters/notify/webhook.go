package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// Option applies a configuration option to the WebhookNotifier.
type Option func(*WebhookNotifier)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(w *WebhookNotifier) {
		if hc != nil {
			w.httpc = hc
		}
	}
}

// WebhookNotifier posts chat-webhook payloads. The target is rendered as
// a leading mention so one webhook serves both member pings and channel
// broadcasts.
type WebhookNotifier struct {
	url   string
	httpc *http.Client
}

// NewWebhook creates a WebhookNotifier for the given webhook URL.
func NewWebhook(url string, opts ...Option) *WebhookNotifier {
	w := &WebhookNotifier{
		url:   url,
		httpc: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type webhookPayload struct {
	Content  string `json:"content"`
	Username string `json:"username"`
}

// Notify posts one message. A 2xx response counts as delivered; anything
// else is a delivery failure for the dispatcher to absorb.
func (w *WebhookNotifier) Notify(ctx context.Context, target, body string) error {
	content := body
	if target != "" {
		content = fmt.Sprintf("@%s %s", target, body)
	}
	payload, err := json.Marshal(webhookPayload{Content: content, Username: "scopebot"})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliver, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliver, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDeliver, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: unexpected status %d", ErrDeliver, resp.StatusCode)
	}
	return nil
}
