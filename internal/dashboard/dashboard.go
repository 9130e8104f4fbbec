// Package dashboard coordinates the log poller, the bot state machine and the
// schedule controller, and turns their callbacks into display updates.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hejijunhao/botdeck/internal/bot"
	"github.com/hejijunhao/botdeck/internal/connector"
	"github.com/hejijunhao/botdeck/internal/engine"
	"github.com/hejijunhao/botdeck/internal/engine/classifier"
	"github.com/hejijunhao/botdeck/internal/metrics"
	"github.com/hejijunhao/botdeck/internal/model"
	"github.com/hejijunhao/botdeck/internal/output"
	"github.com/hejijunhao/botdeck/internal/poller"
	"github.com/hejijunhao/botdeck/internal/schedule"
	"github.com/hejijunhao/botdeck/internal/ticker"
)

// ErrLocked is returned by schedule edits while the bot is running.
var ErrLocked = schedule.ErrLocked

const defaultActivityLimit = 100

// Activity is one entry of the schedule activity feed.
type Activity struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// State is a point-in-time copy of everything a surface displays.
type State struct {
	Status      model.Status      `json:"status"`
	Error       string            `json:"error,omitempty"`
	Logs        model.RenderModel `json:"logs"`
	Controls    model.Controls    `json:"controls"`
	Bot         string            `json:"bot"`
	Schedule    schedule.State    `json:"schedule"`
	AutoRefresh bool              `json:"auto_refresh"`
	Loading     bool              `json:"loading"`
	Activity    []Activity        `json:"activity"`
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithOutput sets the sink that receives every update. Writes happen while
// the dashboard's lock is held, so the sink must not block for long and must
// not call back into the Dashboard.
func WithOutput(o output.Output) Option {
	return func(d *Dashboard) { d.out = o }
}

// WithScheduler sets the timer capability. Default: ticker.Real.
func WithScheduler(s ticker.Scheduler) Option {
	return func(d *Dashboard) { d.sched = s }
}

// WithMetrics sets the metrics sink. Default: none.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dashboard) { d.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// WithRefreshInterval sets the auto-refresh cadence. Default: 5s.
func WithRefreshInterval(iv time.Duration) Option {
	return func(d *Dashboard) { d.interval = iv }
}

// WithClassifier replaces the default keyword rules.
func WithClassifier(c *classifier.Classifier) Option {
	return func(d *Dashboard) { d.engine = engine.New(c) }
}

// WithActivityLimit caps the retained activity feed. Default: 100.
func WithActivityLimit(n int) Option {
	return func(d *Dashboard) {
		if n > 0 {
			d.activityLimit = n
		}
	}
}

// Dashboard owns the display state. Every mutation publishes the matching
// model.Update to the output.
type Dashboard struct {
	ctx           context.Context
	engine        *engine.Engine
	out           output.Output
	sched         ticker.Scheduler
	metrics       *metrics.Metrics
	now           func() time.Time
	interval      time.Duration
	activityLimit int

	poller   *poller.Poller
	bot      *bot.Machine
	schedule *schedule.Controller

	mu        sync.Mutex
	logs      model.RenderModel
	errMsg    string
	status    model.Status
	override  model.Status // Error or Cleared until the next recompute
	botState  model.BotState
	scheduled bool
	connected bool
	controls  model.Controls
	activity  []Activity
}

// New wires a Dashboard over a log source and a bot trigger. ctx bounds every
// timer-driven fetch and every bot run.
func New(ctx context.Context, source connector.Connector, sourceCfg connector.ConnectorConfig, trigger bot.Trigger, opts ...Option) *Dashboard {
	d := &Dashboard{
		ctx:           ctx,
		engine:        engine.New(classifier.New()),
		out:           output.Func(func(context.Context, model.Update) error { return nil }),
		sched:         ticker.Real{},
		now:           time.Now,
		interval:      poller.DefaultInterval,
		activityLimit: defaultActivityLimit,
		status:        model.StatusConnecting,
		controls:      model.IdleControls(false),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logs = model.RenderModel{Entries: []model.Entry{}, Empty: true, UpdatedAt: d.now()}

	d.poller = poller.New(ctx, source, sourceCfg, d.sched,
		poller.WithInterval(d.interval),
		poller.WithOnStart(d.fetchStarted),
		poller.WithOnSuccess(d.fetchSucceeded),
		poller.WithOnFailure(d.fetchFailed),
	)
	d.bot = bot.New(trigger,
		bot.WithOnChange(d.botChanged),
		bot.WithOnResult(d.botSettled),
	)
	d.schedule = schedule.New(ctx, d.sched, d.bot,
		schedule.WithOnActivity(d.addActivity),
		schedule.WithOnTick(d.metrics.ScheduleTick),
		schedule.WithClock(d.now),
	)
	return d
}

// State returns a snapshot of the display state.
func (d *Dashboard) State() State {
	sch := d.schedule.State()
	auto := d.poller.AutoRefresh()
	loading := d.poller.Loading()

	d.mu.Lock()
	defer d.mu.Unlock()
	return State{
		Status:      d.status,
		Error:       d.errMsg,
		Logs:        d.logs,
		Controls:    d.controls,
		Bot:         d.botState.String(),
		Schedule:    sch,
		AutoRefresh: auto,
		Loading:     loading,
		Activity:    append([]Activity(nil), d.activity...),
	}
}

// Refresh fetches the log once. It returns false when a fetch was already in
// flight and the call was dropped.
func (d *Dashboard) Refresh(ctx context.Context) bool {
	return d.poller.Load(ctx)
}

// StartAutoRefresh enables recurring fetches and fetches immediately.
func (d *Dashboard) StartAutoRefresh() { d.poller.StartAutoRefresh() }

// StopAutoRefresh disables recurring fetches.
func (d *Dashboard) StopAutoRefresh() { d.poller.StopAutoRefresh() }

// SetVisible pauses polling while no one is looking.
func (d *Dashboard) SetVisible(visible bool) { d.poller.SetVisible(visible) }

// Clear empties the log display until the next fetch.
func (d *Dashboard) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	rm := model.RenderModel{Entries: []model.Entry{}, Empty: true, UpdatedAt: d.now()}
	d.logs = rm
	d.publishLocked(model.Update{Kind: model.UpdateLogs, Logs: &rm})
	d.override = model.StatusCleared
	d.recomputeLocked()
	d.metrics.Cleared()
}

// StartBot triggers the remote job. It returns false, doing nothing, while a
// run is in progress.
func (d *Dashboard) StartBot() bool {
	return d.bot.Start(d.ctx)
}

// StopBot returns the bot to Idle without cancelling the in-flight call.
func (d *Dashboard) StopBot() bool {
	if !d.bot.Stop() {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.toastLocked(model.ToastInfo, "Bot stopped")
	d.override = ""
	d.recomputeLocked()
	return true
}

// EnableSchedule starts a recurring run every value×unit.
func (d *Dashboard) EnableSchedule(value string, unit schedule.Unit) error {
	return d.applySchedule(func() error {
		_, err := d.schedule.Enable(value, unit)
		return err
	})
}

// EnableCron starts a recurring run on a cron expression.
func (d *Dashboard) EnableCron(expr string) error {
	return d.applySchedule(func() error { return d.schedule.EnableCron(expr) })
}

// DisableSchedule cancels the recurring run.
func (d *Dashboard) DisableSchedule() error {
	return d.applySchedule(func() error {
		d.schedule.Disable()
		return nil
	})
}

// SetInterval edits the interval value, re-applying an active schedule.
func (d *Dashboard) SetInterval(value string) error {
	return d.applySchedule(func() error { return d.schedule.SetInterval(value) })
}

// SetUnit edits the interval unit, re-applying an active schedule.
func (d *Dashboard) SetUnit(unit schedule.Unit) error {
	return d.applySchedule(func() error { return d.schedule.SetUnit(unit) })
}

// Close stops both timers and waits for bot runs to settle.
func (d *Dashboard) Close() {
	d.poller.Close()
	d.schedule.Close()
	d.bot.Wait()
}

// applySchedule runs a schedule edit unless the bot is running, then syncs
// the toggle, the banner and the status with the controller's outcome. A
// rejected edit always republishes the controls so a toggle the user already
// flipped snaps back.
func (d *Dashboard) applySchedule(fn func() error) error {
	err := d.schedule.Edit(fn)
	if errors.Is(err, ErrLocked) {
		return err
	}
	enabled := d.schedule.Enabled()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.scheduled = enabled
	if err != nil {
		d.setErrorLocked(err.Error())
		d.controls = ControlsFor(d.botState, d.scheduled)
		c := d.controls
		d.publishLocked(model.Update{Kind: model.UpdateControls, Controls: &c})
	} else {
		d.setErrorLocked("")
		d.refreshControlsLocked()
	}
	d.recomputeLocked()
	return err
}

func (d *Dashboard) fetchStarted() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setErrorLocked("")
}

func (d *Dashboard) fetchSucceeded(body string, took time.Duration) {
	rm := d.engine.Render(body, d.now())
	d.metrics.FetchSucceeded(took, rm.Total)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.logs = rm
	d.connected = true
	d.publishLocked(model.Update{Kind: model.UpdateLogs, Logs: &rm})
	d.override = ""
	d.recomputeLocked()
}

func (d *Dashboard) fetchFailed(err error, took time.Duration) {
	d.metrics.FetchFailed(took)
	slog.Warn("log fetch failed", "error", err, "took", took)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.setErrorLocked(err.Error())
	d.override = model.StatusError
	d.recomputeLocked()
}

func (d *Dashboard) botChanged(state model.BotState) {
	d.metrics.BotRunning(state == model.BotRunning)
	slog.Debug("bot state changed", "state", state)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.botState = state
	if state == model.BotRunning {
		d.override = ""
	}
	d.refreshControlsLocked()
	d.recomputeLocked()
}

func (d *Dashboard) botSettled(runID string, res bot.Result, err error) {
	d.metrics.BotSettled(err)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		slog.Warn("bot run failed", "run_id", runID, "error", err)
		d.toastLocked(model.ToastError, "Bot failed: "+err.Error())
		d.override = model.StatusError
		d.recomputeLocked()
		return
	}
	slog.Info("bot run succeeded", "run_id", runID, "message", res.Message)
	d.toastLocked(model.ToastSuccess, res.Message)
}

func (d *Dashboard) addActivity(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activity = append(d.activity, Activity{Time: d.now(), Message: msg})
	if len(d.activity) > d.activityLimit {
		d.activity = append([]Activity(nil), d.activity[len(d.activity)-d.activityLimit:]...)
	}
	d.publishLocked(model.Update{Kind: model.UpdateActivity, Activity: msg})
}

func (d *Dashboard) setErrorLocked(msg string) {
	if d.errMsg == msg {
		return
	}
	d.errMsg = msg
	d.publishLocked(model.Update{Kind: model.UpdateError, Error: msg})
}

func (d *Dashboard) toastLocked(level model.ToastLevel, msg string) {
	d.publishLocked(model.Update{Kind: model.UpdateToast, Toast: &model.Toast{Level: level, Message: msg}})
}

func (d *Dashboard) refreshControlsLocked() {
	c := ControlsFor(d.botState, d.scheduled)
	if c == d.controls {
		return
	}
	d.controls = c
	d.publishLocked(model.Update{Kind: model.UpdateControls, Controls: &c})
}

// recomputeLocked publishes the status if it changed. An override, once
// written, stands until a fetch succeeds, a run starts or the bot is stopped.
func (d *Dashboard) recomputeLocked() {
	s := d.override
	if s == "" {
		s = Resolve(d.botState, d.scheduled, d.connected)
	}
	if s == d.status {
		return
	}
	d.status = s
	d.publishLocked(model.Update{Kind: model.UpdateStatus, Status: s})
}

func (d *Dashboard) publishLocked(u model.Update) {
	u.Time = d.now()
	if err := d.out.Write(d.ctx, u); err != nil {
		slog.Warn("output write failed", "kind", u.Kind, "error", err)
	}
}
