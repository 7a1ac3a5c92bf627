package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SlackChannel posts the digest to an incoming-webhook URL. At most one POST
// per run.
type SlackChannel struct {
	Webhook string
	hc      *http.Client
}

func NewSlack(webhook string) *SlackChannel {
	return &SlackChannel{
		Webhook: webhook,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SlackChannel) Name() string { return "slack" }

type slackPayload struct {
	Text string `json:"text"`
}

func (s *SlackChannel) Send(ctx context.Context, msg string) error {
	body, err := json.Marshal(slackPayload{Text: msg})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Webhook, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.hc.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("slack webhook status %d", res.StatusCode)
	}
	return nil
}
