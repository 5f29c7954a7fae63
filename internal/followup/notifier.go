package followup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/dshills/intake/internal/logger"
	"github.com/dshills/intake/internal/redact"
)

// LogNotifier writes followups to the log instead of delivering them. The
// body names the applicant, so only its length is logged.
type LogNotifier struct {
	lggr logger.Logger
}

func NewLogNotifier(lggr logger.Logger) *LogNotifier {
	return &LogNotifier{lggr: lggr.Named("notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, m Message) error {
	n.lggr.Infow("followup message",
		"submission_id", m.SubmissionID,
		"channel", m.Channel,
		"to", redact.Redact(m.To),
		"body_length", len(m.Body),
	)
	return nil
}

// WebhookNotifier POSTs each message as JSON to a delivery service, retrying
// server errors.
type WebhookNotifier struct {
	url      string
	client   *http.Client
	attempts uint
	delay    time.Duration
	lggr     logger.Logger
}

func NewWebhookNotifier(url string, attempts uint, lggr logger.Logger) *WebhookNotifier {
	if attempts == 0 {
		attempts = 3
	}
	return &WebhookNotifier{
		url:      url,
		client:   &http.Client{Timeout: 10 * time.Second},
		attempts: attempts,
		delay:    time.Second,
		lggr:     lggr.Named("notifier"),
	}
}

func (n *WebhookNotifier) Notify(ctx context.Context, m Message) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	return retry.Do(func() error {
		return n.post(ctx, payload)
	},
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.Delay(n.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			n.lggr.Warnw("retrying followup webhook", "attempt", attempt+1, "submission_id", m.SubmissionID, "err", err)
		}),
	)
}

func (n *WebhookNotifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return retry.Unrecoverable(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("webhook returned %s", resp.Status)
	default:
		return retry.Unrecoverable(fmt.Errorf("webhook returned %s", resp.Status))
	}
}
