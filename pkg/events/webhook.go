package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookSink POSTs events to a configured URL as JSON. An allowlist of
// event names limits what leaves the process; an empty allowlist forwards
// everything.
type WebhookSink struct {
	url     string
	allowed map[string]struct{}
	client  *http.Client
}

func NewWebhookSink(url string, timeout time.Duration, allowed ...string) *WebhookSink {
	s := &WebhookSink{
		url:     url,
		allowed: make(map[string]struct{}, len(allowed)),
		client:  &http.Client{Timeout: timeout},
	}
	for _, name := range allowed {
		s.allowed[name] = struct{}{}
	}
	return s
}

func (s *WebhookSink) Deliver(ctx context.Context, event Event) error {
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[event.Name]; !ok {
			return nil
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("unable to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("unable to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

var _ Sink = (*WebhookSink)(nil)
