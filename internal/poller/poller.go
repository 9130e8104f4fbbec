package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hejijunhao/botdeck/internal/connector"
	"github.com/hejijunhao/botdeck/internal/ticker"
)

// DefaultInterval is the auto-refresh cadence.
const DefaultInterval = 5 * time.Second

// Option configures a Poller.
type Option func(*Poller)

// WithInterval sets the auto-refresh cadence. Default: 5s.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithOnStart sets the callback run when a fetch begins (clears the error
// banner).
func WithOnStart(f func()) Option {
	return func(p *Poller) { p.onStart = f }
}

// WithOnSuccess sets the callback that receives the fetched body.
func WithOnSuccess(f func(body string, took time.Duration)) Option {
	return func(p *Poller) { p.onSuccess = f }
}

// WithOnFailure sets the callback that receives fetch errors.
func WithOnFailure(f func(err error, took time.Duration)) Option {
	return func(p *Poller) { p.onFailure = f }
}

// Poller fetches the log resource, at most one request at a time, either on
// demand or on a recurring timer.
type Poller struct {
	conn      connector.Connector
	cfg       connector.ConnectorConfig
	sched     ticker.Scheduler
	ctx       context.Context
	interval  time.Duration
	onStart   func()
	onSuccess func(string, time.Duration)
	onFailure func(error, time.Duration)

	loading atomic.Bool

	mu          sync.Mutex
	handle      ticker.Handle
	autoRefresh bool // the user's preference
	visible     bool
}

// New creates a Poller. ctx bounds timer-driven fetches.
func New(ctx context.Context, conn connector.Connector, cfg connector.ConnectorConfig, sched ticker.Scheduler, opts ...Option) *Poller {
	p := &Poller{
		conn:      conn,
		cfg:       cfg,
		sched:     sched,
		ctx:       ctx,
		interval:  DefaultInterval,
		onStart:   func() {},
		onSuccess: func(string, time.Duration) {},
		onFailure: func(error, time.Duration) {},
		visible:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load performs one fetch. If a fetch is already in flight the call is
// dropped and Load returns false.
func (p *Poller) Load(ctx context.Context) bool {
	if !p.loading.CompareAndSwap(false, true) {
		return false
	}
	defer p.loading.Store(false)

	p.onStart()
	start := time.Now()
	body, err := p.conn.Fetch(ctx, p.cfg)
	if err != nil {
		p.onFailure(err, time.Since(start))
		return true
	}
	p.onSuccess(body, time.Since(start))
	return true
}

// Loading reports whether a fetch is in flight.
func (p *Poller) Loading() bool {
	return p.loading.Load()
}

// StartAutoRefresh turns auto-refresh on: the timer is (re)created and one
// fetch runs immediately. While hidden only the preference is recorded.
func (p *Poller) StartAutoRefresh() {
	p.mu.Lock()
	p.autoRefresh = true
	run := p.visible
	if run {
		p.startLocked()
	}
	p.mu.Unlock()

	if run {
		p.Load(p.ctx)
	}
}

// StopAutoRefresh turns auto-refresh off. Idempotent.
func (p *Poller) StopAutoRefresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoRefresh = false
	p.stopLocked()
}

// AutoRefresh reports the user's auto-refresh preference.
func (p *Poller) AutoRefresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.autoRefresh
}

// Active reports whether the refresh timer is running.
func (p *Poller) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle != nil
}

// SetVisible pauses polling while the display is hidden and resumes it on
// return if auto-refresh is enabled.
func (p *Poller) SetVisible(visible bool) {
	p.mu.Lock()
	if p.visible == visible {
		p.mu.Unlock()
		return
	}
	p.visible = visible
	resume := visible && p.autoRefresh
	if !visible {
		p.stopLocked()
	} else if resume {
		p.startLocked()
	}
	p.mu.Unlock()

	if resume {
		p.Load(p.ctx)
	}
}

// Close stops the refresh timer without changing the preference.
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) startLocked() {
	p.stopLocked()
	p.handle = p.sched.Schedule(ticker.Every(p.interval), func() { p.Load(p.ctx) })
}

func (p *Poller) stopLocked() {
	if p.handle != nil {
		p.handle.Stop()
		p.handle = nil
	}
}
