package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/botdeck/internal/connector"
	"github.com/hejijunhao/botdeck/internal/ticker"
)

// gateConnector blocks every Fetch until gate is closed.
type gateConnector struct {
	calls atomic.Int32
	gate  chan struct{}
	body  string
	err   error
}

func (g *gateConnector) Fetch(ctx context.Context, _ connector.ConnectorConfig) (string, error) {
	g.calls.Add(1)
	if g.gate != nil {
		<-g.gate
	}
	return g.body, g.err
}

type events struct {
	mu      sync.Mutex
	starts  int
	bodies  []string
	failure []error
}

func (e *events) opts() []Option {
	return []Option{
		WithOnStart(func() { e.mu.Lock(); e.starts++; e.mu.Unlock() }),
		WithOnSuccess(func(b string, _ time.Duration) { e.mu.Lock(); e.bodies = append(e.bodies, b); e.mu.Unlock() }),
		WithOnFailure(func(err error, _ time.Duration) { e.mu.Lock(); e.failure = append(e.failure, err); e.mu.Unlock() }),
	}
}

func TestLoad_Success(t *testing.T) {
	conn := &gateConnector{body: "a\nb\n"}
	ev := &events{}
	p := New(context.Background(), conn, connector.ConnectorConfig{}, &ticker.Manual{}, ev.opts()...)

	require.True(t, p.Load(context.Background()))
	require.Equal(t, 1, ev.starts)
	require.Equal(t, []string{"a\nb\n"}, ev.bodies)
	require.Empty(t, ev.failure)
	require.False(t, p.Loading())
}

func TestLoad_FailureReleasesFlag(t *testing.T) {
	conn := &gateConnector{err: errors.New("HTTP 500: boom")}
	ev := &events{}
	p := New(context.Background(), conn, connector.ConnectorConfig{}, &ticker.Manual{}, ev.opts()...)

	require.True(t, p.Load(context.Background()))
	require.False(t, p.Loading())
	require.Len(t, ev.failure, 1)
	require.EqualError(t, ev.failure[0], "HTTP 500: boom")

	require.True(t, p.Load(context.Background()), "flag released after failure")
	require.Equal(t, int32(2), conn.calls.Load())
}

func TestLoad_SingleFlight(t *testing.T) {
	conn := &gateConnector{gate: make(chan struct{})}
	p := New(context.Background(), conn, connector.ConnectorConfig{}, &ticker.Manual{})

	done := make(chan bool)
	go func() { done <- p.Load(context.Background()) }()
	require.Eventually(t, p.Loading, time.Second, time.Millisecond)

	require.False(t, p.Load(context.Background()))
	require.False(t, p.Load(context.Background()))

	close(conn.gate)
	require.True(t, <-done)
	require.Equal(t, int32(1), conn.calls.Load())
}

func TestAutoRefresh(t *testing.T) {
	conn := &gateConnector{body: "x"}
	sched := &ticker.Manual{}
	p := New(context.Background(), conn, connector.ConnectorConfig{}, sched)

	p.StartAutoRefresh()
	require.Equal(t, int32(1), conn.calls.Load(), "immediate load")
	require.True(t, p.AutoRefresh())
	require.True(t, p.Active())

	active := sched.Active()
	require.Len(t, active, 1)
	require.Equal(t, ticker.Every(DefaultInterval), active[0].Cadence)

	sched.Fire()
	sched.Fire()
	require.Equal(t, int32(3), conn.calls.Load())

	// Restarting cancels the previous timer first.
	p.StartAutoRefresh()
	require.Len(t, sched.Active(), 1)
	require.Len(t, sched.Tasks(), 2)

	p.StopAutoRefresh()
	p.StopAutoRefresh()
	require.False(t, p.AutoRefresh())
	require.Empty(t, sched.Active())
}

func TestWithInterval(t *testing.T) {
	sched := &ticker.Manual{}
	p := New(context.Background(), &gateConnector{}, connector.ConnectorConfig{}, sched, WithInterval(2*time.Second))
	p.StartAutoRefresh()
	require.Equal(t, ticker.Every(2*time.Second), sched.Active()[0].Cadence)
}

func TestSetVisible(t *testing.T) {
	conn := &gateConnector{}
	sched := &ticker.Manual{}
	p := New(context.Background(), conn, connector.ConnectorConfig{}, sched)

	p.StartAutoRefresh()
	p.SetVisible(false)
	require.Empty(t, sched.Active())
	require.True(t, p.AutoRefresh(), "preference kept while hidden")

	p.SetVisible(true)
	require.Len(t, sched.Active(), 1)
	require.Equal(t, int32(2), conn.calls.Load(), "resume loads immediately")
}

func TestSetVisible_RespectsPreference(t *testing.T) {
	conn := &gateConnector{}
	sched := &ticker.Manual{}
	p := New(context.Background(), conn, connector.ConnectorConfig{}, sched)

	p.SetVisible(false)
	p.SetVisible(true)
	require.Empty(t, sched.Tasks())
	require.Equal(t, int32(0), conn.calls.Load())

	// Enabling while hidden only records the preference.
	p.SetVisible(false)
	p.StartAutoRefresh()
	require.Empty(t, sched.Tasks())
	p.SetVisible(true)
	require.Len(t, sched.Active(), 1)
}
