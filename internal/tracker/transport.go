package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Transport delivers a batch to the collector.
type Transport interface {
	Deliver(ctx context.Context, entries []Entry) error
}

var (
	// ErrDelivery wraps collector failures after retries are exhausted.
	ErrDelivery = errors.New("error batch delivery failed")
	// ErrRejected marks a batch the collector refused as invalid. Resending it
	// cannot succeed.
	ErrRejected = errors.New("error batch rejected")
)

// Batch is the collector request body.
type Batch struct {
	Errors []Entry `json:"errors"`
}

// HTTPTransport POSTs batches as JSON and retries 5xx, 408 and 429 responses
// and network failures with exponential backoff. Other 4xx responses fail at
// once with ErrRejected.
type HTTPTransport struct {
	Endpoint   string
	Client     *http.Client
	MaxRetries int
	RetryBase  time.Duration
}

// NewHTTPTransport builds a transport from cfg. A zero MaxRetries takes the
// default and a negative one disables retries.
func NewHTTPTransport(cfg Config) *HTTPTransport {
	cfg = cfg.withDefaults()
	return &HTTPTransport{
		Endpoint:   cfg.Endpoint,
		Client:     &http.Client{Timeout: 10 * time.Second},
		MaxRetries: cfg.retries(),
		RetryBase:  cfg.RetryBase,
	}
}

// Deliver sends entries, retrying up to MaxRetries times.
func (t *HTTPTransport) Deliver(ctx context.Context, entries []Entry) error {
	body, err := json.Marshal(Batch{Errors: entries})
	if err != nil {
		return fmt.Errorf("encode batch: %w", err)
	}
	base := t.RetryBase
	if base <= 0 {
		base = DefaultRetryBase
	}
	maxRetries := t.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := retry.WithMaxRetries(uint64(maxRetries), retry.NewExponential(base))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		return t.post(ctx, body)
	})
	if err != nil && !errors.Is(err, ErrRejected) {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return err
}

func (t *HTTPTransport) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch code := resp.StatusCode; {
	case code >= 200 && code <= 299:
		return nil
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return retry.RetryableError(fmt.Errorf("collector responded %d", code))
	default:
		return fmt.Errorf("%w: collector responded %d", ErrRejected, code)
	}
}

type discardTransport struct{}

func (discardTransport) Deliver(context.Context, []Entry) error { return nil }
