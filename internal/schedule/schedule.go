package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hejijunhao/botdeck/internal/ticker"
)

// ErrLocked is returned by Edit while a run is in progress.
var ErrLocked = errors.New("schedule controls are locked while the bot is running")

// Runner is the job a schedule tick acts on.
type Runner interface {
	IsRunning() bool
	Start(ctx context.Context) bool
}

// State is a snapshot of the schedule configuration.
type State struct {
	Enabled  bool          `json:"enabled"`
	Value    string        `json:"value"`
	Unit     Unit          `json:"unit"`
	Interval time.Duration `json:"interval_ms"`
	Cron     string        `json:"cron,omitempty"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithOnActivity sets the callback that receives activity entries (enable,
// disable, every tick).
func WithOnActivity(f func(msg string)) Option {
	return func(c *Controller) { c.onActivity = f }
}

// WithOnTick sets a callback invoked on every tick with whether a run was
// triggered.
func WithOnTick(f func(triggered bool)) Option {
	return func(c *Controller) { c.onTick = f }
}

// WithClock overrides time.Now, used to validate cron expressions.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller owns at most one recurring "trigger the bot" task. Every change
// cancels the current task before creating its replacement.
type Controller struct {
	ctx        context.Context
	sched      ticker.Scheduler
	runner     Runner
	onActivity func(string)
	onTick     func(bool)
	now        func() time.Time

	// edit serializes Edit with ticks.
	edit sync.Mutex

	mu     sync.Mutex
	handle ticker.Handle
	state  State
}

// New creates a disabled Controller. ctx bounds the runs started by ticks.
func New(ctx context.Context, sched ticker.Scheduler, runner Runner, opts ...Option) *Controller {
	c := &Controller{
		ctx:        ctx,
		sched:      sched,
		runner:     runner,
		onActivity: func(string) {},
		onTick:     func(bool) {},
		now:        time.Now,
		state:      State{Value: fmt.Sprint(DefaultValue), Unit: Minutes},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current configuration.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Enabled reports whether a schedule is active.
func (c *Controller) Enabled() bool {
	return c.State().Enabled
}

// Edit runs fn unless a run is in progress. Ticks wait for fn to return, so
// no run can start between the check and the change.
func (c *Controller) Edit(fn func() error) error {
	c.edit.Lock()
	defer c.edit.Unlock()
	if c.runner.IsRunning() {
		return ErrLocked
	}
	return fn()
}

// Enable installs a schedule firing every value×unit, replacing any previous
// one, and starts a run right away if none is in progress. A rejected
// configuration leaves the schedule disabled.
func (c *Controller) Enable(value string, unit Unit) (time.Duration, error) {
	d, err := Interval(value, unit)

	c.mu.Lock()
	c.state.Value, c.state.Unit, c.state.Cron = value, unit, ""
	if err != nil {
		wasEnabled := c.stopLocked()
		c.mu.Unlock()
		if wasEnabled {
			c.onActivity("Schedule disabled")
		}
		return 0, err
	}
	c.installLocked(ticker.Every(d))
	c.state.Interval = d
	c.mu.Unlock()

	c.onActivity(fmt.Sprintf("Schedule enabled: every %s", Describe(value, unit)))
	c.kick()
	return d, nil
}

// EnableCron installs a schedule driven by a cron expression.
func (c *Controller) EnableCron(expr string) error {
	cad, err := NewCronCadence(expr, c.now())

	c.mu.Lock()
	if err != nil {
		wasEnabled := c.stopLocked()
		c.mu.Unlock()
		if wasEnabled {
			c.onActivity("Schedule disabled")
		}
		return err
	}
	c.installLocked(cad)
	c.state.Cron = expr
	c.state.Interval = 0
	c.mu.Unlock()

	c.onActivity(fmt.Sprintf("Schedule enabled: cron %q", expr))
	c.kick()
	return nil
}

// Disable cancels the schedule. Calling it while disabled is harmless.
func (c *Controller) Disable() {
	c.mu.Lock()
	c.stopLocked()
	c.mu.Unlock()
	c.onActivity("Schedule disabled")
}

// Close cancels the schedule without emitting an activity entry.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// SetInterval changes the interval value. While enabled, the schedule is
// re-applied with the new value.
func (c *Controller) SetInterval(value string) error {
	c.mu.Lock()
	c.state.Value = value
	enabled, unit := c.state.Enabled && c.state.Cron == "", c.state.Unit
	c.mu.Unlock()

	if !enabled {
		return nil
	}
	_, err := c.Enable(value, unit)
	return err
}

// SetUnit changes the interval unit. While enabled, the schedule is
// re-applied with the new unit.
func (c *Controller) SetUnit(unit Unit) error {
	c.mu.Lock()
	c.state.Unit = unit
	enabled, value := c.state.Enabled && c.state.Cron == "", c.state.Value
	c.mu.Unlock()

	if !enabled {
		return nil
	}
	_, err := c.Enable(value, unit)
	return err
}

// installLocked cancels the current task, then creates the new one.
func (c *Controller) installLocked(cad ticker.Cadence) {
	c.stopLocked()
	c.handle = c.sched.Schedule(cad, c.tick)
	c.state.Enabled = true
}

func (c *Controller) stopLocked() bool {
	was := c.state.Enabled
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
	c.state.Enabled = false
	return was
}

// kick starts a run unless one is in progress.
func (c *Controller) kick() bool {
	if c.runner.IsRunning() {
		return false
	}
	return c.runner.Start(c.ctx)
}

func (c *Controller) tick() {
	c.edit.Lock()
	triggered := c.kick()
	c.edit.Unlock()
	c.onTick(triggered)
	if triggered {
		c.onActivity("Scheduled run: bot triggered")
	} else {
		c.onActivity("Scheduled run: bot already running, skipped")
	}
}
