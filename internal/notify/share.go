// Package notify dispatches finalized slip summaries to the merchant's
// configured share webhook (typically a WhatsApp bridge). Delivery runs
// through asynq so a flaky webhook never blocks finalize.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/akshayfabrics/backend-slip/internal/obs"
)

// TaskSlipShare is the asynq task type for share dispatch.
const TaskSlipShare = "slip:share"

// QueueShare is the asynq queue share tasks are routed to.
const QueueShare = "share"

// SharePayload is the slip summary posted to the share webhook.
type SharePayload struct {
	SlipNo       int64   `json:"slipNo"`
	IssuedAt     string  `json:"issuedAt"`
	CustomerName string  `json:"customerName"`
	Mobile       string  `json:"mobile"`
	Date         string  `json:"date"`
	Bundles      string  `json:"bundles"`
	TotalPieces  float64 `json:"totalPieces"`
	GrossAmount  string  `json:"grossAmount"`
	NetAmount    string  `json:"netAmount"`
	PaymentURI   string  `json:"paymentUri,omitempty"`
}

// Enqueuer schedules share tasks on the asynq broker.
type Enqueuer struct {
	Client     *asynq.Client
	MaxRetry   int
	RetainDead time.Duration
}

// EnqueueShare queues one share dispatch for the payload.
func (e Enqueuer) EnqueueShare(ctx context.Context, payload SharePayload) error {
	if e.Client == nil {
		return fmt.Errorf("notify: asynq client not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal share payload: %w", err)
	}
	maxRetry := e.MaxRetry
	if maxRetry <= 0 {
		maxRetry = 5
	}
	opts := []asynq.Option{asynq.Queue(QueueShare), asynq.MaxRetry(maxRetry)}
	if e.RetainDead > 0 {
		opts = append(opts, asynq.Retention(e.RetainDead))
	}
	_, err = e.Client.EnqueueContext(ctx, asynq.NewTask(TaskSlipShare, body), opts...)
	return err
}

// ShareWorker delivers share payloads to the configured webhook.
type ShareWorker struct {
	WebhookURL string
	HTTP       *http.Client
	Logger     *zerolog.Logger
}

// NewHTTPClient builds the outbound client used for webhook delivery,
// instrumented for tracing.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// Handle implements the asynq handler for slip share tasks. A non-2xx
// response is returned as an error so asynq retries with backoff.
func (w ShareWorker) Handle(ctx context.Context, task *asynq.Task) error {
	if w.WebhookURL == "" {
		return nil
	}
	var payload SharePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		obs.ObserveShareDispatch("invalid")
		return fmt.Errorf("unmarshal share payload: %w", asynq.SkipRetry)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.WebhookURL, bytes.NewReader(task.Payload()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.HTTP
	if client == nil {
		client = NewHTTPClient(0)
	}
	resp, err := client.Do(req)
	if err != nil {
		obs.ObserveShareDispatch("error")
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		obs.ObserveShareDispatch("rejected")
		return fmt.Errorf("share webhook returned %d", resp.StatusCode)
	}
	obs.ObserveShareDispatch("delivered")
	if w.Logger != nil {
		w.Logger.Info().Int64("slip_no", payload.SlipNo).Msg("slip share delivered")
	}
	return nil
}
