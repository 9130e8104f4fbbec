package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hejijunhao/botdeck/internal/dashboard"
	"github.com/hejijunhao/botdeck/internal/output/hub"
	"github.com/hejijunhao/botdeck/internal/schedule"
)

// Dashboard is the set of operations the web surface drives.
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
	EnableCron(expr string) error
	DisableSchedule() error
	SetInterval(value string) error
	SetUnit(unit schedule.Unit) error
}

// Handler serves the JSON API.
type Handler struct {
	d   Dashboard
	hub *hub.Hub
}

// NewHandler returns a Handler over d. hub may be nil when no event stream
// is served.
func NewHandler(d Dashboard, h *hub.Hub) *Handler {
	return &Handler{d: d, hub: h}
}

func (h *Handler) respond(c echo.Context, accepted bool) error {
	return c.JSON(http.StatusOK, ActionResponse{Accepted: accepted, State: h.d.State()})
}

// State returns the current dashboard state.
func (h *Handler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.d.State())
}

// Refresh fetches the log once. Dropped while a fetch is in flight.
func (h *Handler) Refresh(c echo.Context) error {
	return h.respond(c, h.d.Refresh(c.Request().Context()))
}

// AutoRefresh turns recurring fetches on or off.
func (h *Handler) AutoRefresh(c echo.Context) error {
	var req ToggleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if *req.Enabled {
		h.d.StartAutoRefresh()
	} else {
		h.d.StopAutoRefresh()
	}
	return h.respond(c, true)
}

// Visibility pauses or resumes polling as the page is hidden or shown.
func (h *Handler) Visibility(c echo.Context) error {
	var req VisibilityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	h.d.SetVisible(*req.Visible)
	return h.respond(c, true)
}

// Clear empties the log view.
func (h *Handler) Clear(c echo.Context) error {
	h.d.Clear()
	return h.respond(c, true)
}

// BotStart triggers the remote job. Not accepted while a run is in progress.
func (h *Handler) BotStart(c echo.Context) error {
	return h.respond(c, h.d.StartBot())
}

// BotStop returns the bot to idle. Not accepted while idle.
func (h *Handler) BotStop(c echo.Context) error {
	return h.respond(c, h.d.StopBot())
}

// Schedule enables or disables the recurring run.
func (h *Handler) Schedule(c echo.Context) error {
	var req ScheduleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var err error
	switch {
	case !*req.Enabled:
		err = h.d.DisableSchedule()
	case req.Cron != "":
		err = h.d.EnableCron(req.Cron)
	default:
		unit := schedule.Unit(req.Unit)
		if unit == "" {
			unit = h.d.State().Schedule.Unit
		}
		err = h.d.EnableSchedule(req.Value, unit)
	}
	if err != nil {
		return scheduleErr(err)
	}
	return h.respond(c, true)
}

// Interval edits the interval value.
func (h *Handler) Interval(c echo.Context) error {
	var req IntervalRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.d.SetInterval(req.Value); err != nil {
		return scheduleErr(err)
	}
	return h.respond(c, true)
}

// Unit edits the interval unit.
func (h *Handler) Unit(c echo.Context) error {
	var req UnitRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.d.SetUnit(schedule.Unit(req.Unit)); err != nil {
		return scheduleErr(err)
	}
	return h.respond(c, true)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c echo.Context) error {
	subs := 0
	if h.hub != nil {
		subs = h.hub.Subscribers()
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"subscribers": subs,
	})
}
