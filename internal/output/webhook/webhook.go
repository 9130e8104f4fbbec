// Package webhook POSTs batches of dashboard updates (typically toasts and
// errors) to an HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hejijunhao/botdeck/internal/model"
)

const (
	defaultBatchSize     = 20
	defaultFlushInterval = 5 * time.Second
	defaultTimeout       = 10 * time.Second
)

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) { o.headers = h }
}

// WithBatchSize sets how many updates trigger an immediate flush. Default: 20.
func WithBatchSize(n int) Option {
	return func(o *Output) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithFlushInterval bounds how long an update waits in a partial batch.
// Default: 5s.
func WithFlushInterval(d time.Duration) Option {
	return func(o *Output) { o.flushInterval = d }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.client.Timeout = d }
}

// WithOnError sets the callback for failed timer flushes. Default: slog.Warn.
func WithOnError(f func(error)) Option {
	return func(o *Output) { o.errFunc = f }
}

// Payload is the JSON body of each POST.
type Payload struct {
	Source  string         `json:"source"`
	Updates []model.Update `json:"updates"`
}

// Output batches updates and POSTs them as a Payload. Delivery is attempted
// once; a failed batch is reported and discarded.
type Output struct {
	client        *http.Client
	url           string
	source        string
	headers       map[string]string
	batchSize     int
	flushInterval time.Duration
	errFunc       func(error)

	mu      sync.Mutex
	pending []model.Update
	timer   *time.Timer
}

// New creates a webhook output. source identifies this dashboard in the
// payload.
func New(url, source string, opts ...Option) *Output {
	o := &Output{
		client:        &http.Client{Timeout: defaultTimeout},
		url:           url,
		source:        source,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		errFunc:       func(err error) { slog.Warn("webhook flush error", "error", err) },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write adds u to the current batch and flushes when the batch is full. The
// first update of a batch arms the flush timer.
func (o *Output) Write(ctx context.Context, u model.Update) error {
	o.mu.Lock()
	o.pending = append(o.pending, u)
	if len(o.pending) >= o.batchSize {
		batch := o.takeLocked()
		o.mu.Unlock()
		return o.post(ctx, batch)
	}
	if len(o.pending) == 1 {
		o.timer = time.AfterFunc(o.flushInterval, o.flushTimer)
	}
	o.mu.Unlock()
	return nil
}

// Close stops the timer and sends whatever is pending.
func (o *Output) Close() error {
	o.mu.Lock()
	batch := o.takeLocked()
	o.mu.Unlock()
	return o.post(context.Background(), batch)
}

func (o *Output) flushTimer() {
	o.mu.Lock()
	batch := o.takeLocked()
	o.mu.Unlock()
	if err := o.post(context.Background(), batch); err != nil {
		o.errFunc(err)
	}
}

// takeLocked detaches the pending batch. Caller must hold o.mu.
func (o *Output) takeLocked() []model.Update {
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	batch := o.pending
	o.pending = nil
	return batch
}

func (o *Output) post(ctx context.Context, batch []model.Update) error {
	if len(batch) == 0 {
		return nil
	}
	body, err := json.Marshal(Payload{Source: o.source, Updates: batch})
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range o.headers {
		req.Header.Set(k, v)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: HTTP %d", resp.StatusCode)
	}
	return nil
}
