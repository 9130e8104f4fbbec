package ticker

import (
	"sync"
	"sync/atomic"
)

// Manual is a Scheduler whose tasks only run when fired explicitly.
type Manual struct {
	mu    sync.Mutex
	tasks []*ManualTask
}

// ManualTask is a task registered with a Manual scheduler.
type ManualTask struct {
	Cadence Cadence
	fn      func()
	stopped atomic.Bool
}

// Stop cancels the task.
func (t *ManualTask) Stop() { t.stopped.Store(true) }

// Stopped reports whether Stop was called.
func (t *ManualTask) Stopped() bool { return t.stopped.Load() }

// Fire runs the task once unless it was stopped.
func (t *ManualTask) Fire() {
	if !t.Stopped() {
		t.fn()
	}
}

func (m *Manual) Schedule(c Cadence, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTask{Cadence: c, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Tasks returns every task ever scheduled, in order.
func (m *Manual) Tasks() []*ManualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ManualTask, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Active returns the tasks that have not been stopped.
func (m *Manual) Active() []*ManualTask {
	var out []*ManualTask
	for _, t := range m.Tasks() {
		if !t.Stopped() {
			out = append(out, t)
		}
	}
	return out
}

// Fire runs every active task once.
func (m *Manual) Fire() {
	for _, t := range m.Active() {
		t.Fire()
	}
}
