package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hejijunhao/botdeck/internal/model"
	"github.com/hejijunhao/botdeck/internal/output"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 5 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) {
		if n > 0 {
			a.bufSize = n
		}
	}
}

// WithOnError sets the callback for inner Write failures. Default: slog.Warn.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDropOnFull makes Write discard the update instead of blocking when the
// buffer is full.
func WithDropOnFull() Option {
	return func(a *Async) { a.dropOnFull = true }
}

// Async hands updates to a background goroutine that writes them to the
// wrapped output, so a slow surface never stalls the dashboard.
type Async struct {
	inner      output.Output
	ch         chan model.Update
	done       chan struct{}
	errFunc    func(error)
	bufSize    int
	dropOnFull bool

	mu     sync.RWMutex // guards closed against sends on a closed channel
	closed bool
}

// New wraps inner and starts the drain goroutine.
func New(inner output.Output, opts ...Option) *Async {
	a := &Async{
		inner:   inner,
		bufSize: defaultBufferSize,
		errFunc: func(err error) { slog.Warn("async output write error", "error", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.Update, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Write queues u. It blocks while the buffer is full unless WithDropOnFull is
// set. Writes after Close are discarded.
func (a *Async) Write(ctx context.Context, u model.Update) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return nil
	}

	if a.dropOnFull {
		select {
		case a.ch <- u:
		default:
			slog.Warn("async output buffer full, dropping update", "kind", u.Kind)
		}
		return nil
	}
	select {
	case a.ch <- u:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting updates, waits (bounded) for the queue to drain,
// then closes the inner output. Safe to call more than once.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(defaultDrainTimeout):
		slog.Warn("async output drain timed out")
	}
	return a.inner.Close()
}

func (a *Async) drain() {
	defer close(a.done)
	for u := range a.ch {
		if err := a.inner.Write(context.Background(), u); err != nil {
			a.errFunc(err)
		}
	}
}
