package bot

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hejijunhao/botdeck/internal/model"
)

// Option configures a Machine.
type Option func(*Machine)

// WithOnChange sets the callback invoked after every state transition.
func WithOnChange(f func(model.BotState)) Option {
	return func(m *Machine) { m.onChange = f }
}

// WithOnResult sets the callback invoked when a trigger call settles, before
// the machine returns to Idle.
func WithOnResult(f func(runID string, res Result, err error)) Option {
	return func(m *Machine) { m.onResult = f }
}

// Machine tracks whether the remote job is running. Starting while Running is
// a no-op. Leaving Running happens on Stop or when the trigger call settles,
// whichever comes first; a call that settles after a newer run has started
// does not end the newer run.
type Machine struct {
	trigger  Trigger
	onChange func(model.BotState)
	onResult func(string, Result, error)

	mu    sync.Mutex
	state model.BotState
	runID string
	wg    sync.WaitGroup
}

// New creates an idle Machine.
func New(trigger Trigger, opts ...Option) *Machine {
	m := &Machine{
		trigger:  trigger,
		onChange: func(model.BotState) {},
		onResult: func(string, Result, error) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() model.BotState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsRunning reports whether the machine is in the Running state.
func (m *Machine) IsRunning() bool {
	return m.State() == model.BotRunning
}

// Start enters Running and issues the trigger call on a new goroutine.
// Returns false without side effects when already Running.
func (m *Machine) Start(ctx context.Context) bool {
	id, ok := m.begin()
	if !ok {
		return false
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.finish(ctx, id)
	}()
	return true
}

// Run is the blocking form of Start. It returns once the call has settled
// and the machine is back to Idle.
func (m *Machine) Run(ctx context.Context) (started bool) {
	id, ok := m.begin()
	if !ok {
		return false
	}
	m.finish(ctx, id)
	return true
}

// Stop returns to Idle without cancelling an in-flight call. Returns false
// when already Idle.
func (m *Machine) Stop() bool {
	m.mu.Lock()
	if m.state != model.BotRunning {
		m.mu.Unlock()
		return false
	}
	m.state = model.BotIdle
	m.runID = ""
	m.mu.Unlock()

	m.onChange(model.BotIdle)
	return true
}

// Wait blocks until every call issued by Start has settled.
func (m *Machine) Wait() {
	m.wg.Wait()
}

func (m *Machine) begin() (string, bool) {
	m.mu.Lock()
	if m.state == model.BotRunning {
		m.mu.Unlock()
		return "", false
	}
	id := uuid.NewString()
	m.state = model.BotRunning
	m.runID = id
	m.mu.Unlock()

	m.onChange(model.BotRunning)
	return id, true
}

func (m *Machine) finish(ctx context.Context, id string) {
	defer m.settle(id)
	res, err := m.trigger.Trigger(ctx)
	m.onResult(id, res, err)
}

// settle restores Idle if id is still the current run.
func (m *Machine) settle(id string) {
	m.mu.Lock()
	if m.state != model.BotRunning || m.runID != id {
		m.mu.Unlock()
		return
	}
	m.state = model.BotIdle
	m.runID = ""
	m.mu.Unlock()

	m.onChange(model.BotIdle)
}
