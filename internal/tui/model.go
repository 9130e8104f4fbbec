// Package tui is the terminal surface: a scrollable, colour-coded log view
// with keyboard controls for refresh, the bot and its schedule.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hejijunhao/botdeck/internal/dashboard"
	"github.com/hejijunhao/botdeck/internal/engine/sanitize"
	"github.com/hejijunhao/botdeck/internal/engine/scroll"
	"github.com/hejijunhao/botdeck/internal/model"
	"github.com/hejijunhao/botdeck/internal/schedule"
)

const (
	toastDuration = 4 * time.Second
	// header, banner, controls, activity/toast, help
	chromeHeight = 5
)

// Dashboard is the set of operations the terminal surface drives.
type Dashboard interface {
	State() dashboard.State
	Refresh(ctx context.Context) bool
	StartAutoRefresh()
	StopAutoRefresh()
	SetVisible(visible bool)
	Clear()
	StartBot() bool
	StopBot() bool
	EnableSchedule(value string, unit schedule.Unit) error
	DisableSchedule() error
	SetInterval(value string) error
	SetUnit(unit schedule.Unit) error
}

// updateMsg carries a dashboard update into the event loop.
type updateMsg model.Update

// stateMsg replaces the whole view state, after an action.
type stateMsg struct {
	state dashboard.State
	err   error
}

type toastExpiredMsg struct{ seq int }

// Model is the bubbletea model.
type Model struct {
	d     Dashboard
	title string

	state    dashboard.State
	vp       viewport.Model
	ready    bool
	toast    *model.Toast
	toastSeq int
}

// New creates a Model showing d's current state.
func New(d Dashboard, title string) Model {
	if title == "" {
		title = "botdeck"
	}
	return Model{d: d, title: title, state: d.State()}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - chromeHeight
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, h)
			m.ready = true
			m.setLogs(m.state.Logs)
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = h
			m.vp.SetYOffset(m.vp.YOffset)
		}
		return m, nil

	case tea.FocusMsg:
		return m, m.do(func() error { m.d.SetVisible(true); return nil })

	case tea.BlurMsg:
		return m, m.do(func() error { m.d.SetVisible(false); return nil })

	case updateMsg:
		return m.apply(model.Update(msg))

	case stateMsg:
		m.state.Schedule = msg.state.Schedule
		m.state.AutoRefresh = msg.state.AutoRefresh
		m.state.Controls = msg.state.Controls
		m.state.Status = msg.state.Status
		m.state.Error = msg.state.Error
		m.state.Bot = msg.state.Bot
		if msg.err != nil {
			return m.showToast(model.Toast{Level: model.ToastError, Message: msg.err.Error()})
		}
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case tea.KeyMsg:
		if cmd, ok := m.handleKey(msg); ok {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// apply folds one dashboard update into the view state.
func (m Model) apply(u model.Update) (tea.Model, tea.Cmd) {
	switch u.Kind {
	case model.UpdateLogs:
		if u.Logs != nil {
			m.setLogs(*u.Logs)
		}
	case model.UpdateStatus:
		m.state.Status = u.Status
	case model.UpdateError:
		m.state.Error = u.Error
	case model.UpdateControls:
		if u.Controls != nil {
			m.state.Controls = *u.Controls
			m.state.Schedule.Enabled = u.Controls.Scheduled
			m.state.Bot = model.BotIdle.String()
			if u.Controls.Stop {
				m.state.Bot = model.BotRunning.String()
			}
		}
	case model.UpdateActivity:
		m.state.Activity = append(m.state.Activity, dashboard.Activity{Time: u.Time, Message: u.Activity})
	case model.UpdateToast:
		if u.Toast != nil {
			return m.showToast(*u.Toast)
		}
	}
	return m, nil
}

func (m Model) showToast(t model.Toast) (tea.Model, tea.Cmd) {
	m.toastSeq++
	m.toast = &t
	seq := m.toastSeq
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	c := m.state.Controls
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, keys.Refresh):
		return m.do(func() error { m.d.Refresh(context.Background()); return nil }), true
	case key.Matches(msg, keys.AutoRefresh):
		on := !m.state.AutoRefresh
		return m.do(func() error {
			if on {
				m.d.StartAutoRefresh()
			} else {
				m.d.StopAutoRefresh()
			}
			return nil
		}), true
	case key.Matches(msg, keys.Clear):
		return m.do(func() error { m.d.Clear(); return nil }), true
	case key.Matches(msg, keys.Start):
		if !c.Start {
			return nil, true
		}
		return m.do(func() error { m.d.StartBot(); return nil }), true
	case key.Matches(msg, keys.Stop):
		if !c.Stop {
			return nil, true
		}
		return m.do(func() error { m.d.StopBot(); return nil }), true
	case key.Matches(msg, keys.Schedule):
		if !c.Toggle {
			return nil, true
		}
		sch := m.state.Schedule
		return m.do(func() error {
			if sch.Enabled {
				return m.d.DisableSchedule()
			}
			return m.d.EnableSchedule(sch.Value, sch.Unit)
		}), true
	case key.Matches(msg, keys.Longer), key.Matches(msg, keys.Shorter):
		if !c.Interval {
			return nil, true
		}
		delta := 1
		if key.Matches(msg, keys.Shorter) {
			delta = -1
		}
		next := strconv.Itoa(stepInterval(m.state.Schedule.Value, delta))
		return m.do(func() error { return m.d.SetInterval(next) }), true
	case key.Matches(msg, keys.Unit):
		if !c.Unit {
			return nil, true
		}
		next := nextUnit(m.state.Schedule.Unit)
		return m.do(func() error { return m.d.SetUnit(next) }), true
	}
	return nil, false
}

// do runs an action off the event loop and reports the resulting state.
func (m Model) do(action func() error) tea.Cmd {
	d := m.d
	return func() tea.Msg {
		err := action()
		return stateMsg{state: d.State(), err: err}
	}
}

// setLogs replaces the log content, keeping the reader's place.
func (m *Model) setLogs(rm model.RenderModel) {
	m.state.Logs = rm
	if !m.ready {
		return
	}
	anchor := scroll.Capture(m.vp.YOffset, m.vp.TotalLineCount())
	m.vp.SetContent(renderLines(rm))
	total := m.vp.TotalLineCount()
	m.vp.SetYOffset(scroll.Clamp(anchor.Reanchor(total), total, m.vp.Height))
}

func renderLines(rm model.RenderModel) string {
	if rm.Empty || len(rm.Entries) == 0 {
		return mutedStyle.Render("No logs available")
	}
	width := len(strconv.Itoa(rm.Total))
	var b strings.Builder
	for i, e := range rm.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%*d", width, e.Index)))
		b.WriteByte(' ')
		if e.Timestamp != "" {
			b.WriteString(mutedStyle.Render(e.Timestamp))
			b.WriteByte(' ')
		}
		b.WriteString(categoryStyles[e.Category].Render(sanitize.Terminal(e.Body)))
	}
	return b.String()
}

func stepInterval(value string, delta int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n = schedule.DefaultValue
	}
	n += delta
	if n < 1 {
		n = 1
	}
	return n
}

func nextUnit(u schedule.Unit) schedule.Unit {
	switch u {
	case schedule.Seconds:
		return schedule.Minutes
	case schedule.Minutes:
		return schedule.Hours
	default:
		return schedule.Seconds
	}
}

func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	st := m.state

	header := fmt.Sprintf("%s %s %s",
		titleStyle.Render(m.title),
		statusBadge(st.Status),
		mutedStyle.Render(fmt.Sprintf("%d lines · updated %s · auto-refresh %s",
			st.Logs.Total, st.Logs.UpdatedAt.Format("15:04:05"), onOff(st.AutoRefresh))),
	)

	banner := ""
	if st.Error != "" {
		banner = bannerStyle.Render(sanitize.Terminal(st.Error))
	}

	c := st.Controls
	every := fmt.Sprintf("every %s", schedule.Describe(st.Schedule.Value, st.Schedule.Unit))
	if st.Schedule.Cron != "" && st.Schedule.Enabled {
		every = fmt.Sprintf("cron %q", st.Schedule.Cron)
	}
	controls := fmt.Sprintf("bot %s  [%s] [%s]  schedule %s %s",
		st.Bot,
		control("start", c.Start),
		control("stop", c.Stop),
		control(onOff(c.Scheduled), c.Toggle),
		control(every, c.Interval && c.Unit),
	)

	status := ""
	switch {
	case m.toast != nil:
		status = toastView(*m.toast)
	case len(st.Activity) > 0:
		a := st.Activity[len(st.Activity)-1]
		status = mutedStyle.Render(a.Time.Format("15:04:05") + " " + a.Message)
	}

	help := make([]string, 0, len(keys.help()))
	for _, b := range keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}

	return strings.Join([]string{
		header,
		banner,
		m.vp.View(),
		controls,
		status,
		mutedStyle.Render(strings.Join(help, " · ")),
	}, "\n")
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
