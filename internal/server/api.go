package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hejijunhao/botdeck/internal/dashboard"
	"github.com/hejijunhao/botdeck/internal/model"
)

// Error is the JSON body of every failed API call.
type Error struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

func (e Error) Error() string {
	return fmt.Sprintf("code=%d, message=%s, details=%s", e.Code, e.Message, strings.Join(e.Details, " "))
}

// Err creates an Error. An empty message uses the status text; a format
// string and arguments, if given, become the details.
func Err(code int, message string, args ...any) Error {
	if message == "" {
		message = http.StatusText(code)
	}
	e := Error{Code: code, Message: message, Details: []string{}}
	if len(args) >= 1 {
		if format, ok := args[0].(string); ok {
			e.Details = strings.Split(fmt.Sprintf(format, args[1:]...), "\n")
		}
	}
	return e
}

// ActionResponse is returned by every control endpoint. Accepted is false
// when the action was a no-op (a fetch already in flight, a start while
// running, a stop while idle).
type ActionResponse struct {
	Accepted bool            `json:"accepted"`
	State    dashboard.State `json:"state"`
}

// ToggleRequest switches auto-refresh on or off.
type ToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// VisibilityRequest reports whether the page is visible.
type VisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// ScheduleRequest enables or disables the recurring run. Cron, when set,
// takes precedence over Value and Unit.
type ScheduleRequest struct {
	Enabled *bool  `json:"enabled" validate:"required"`
	Value   string `json:"value" validate:"max=16"`
	Unit    string `json:"unit" validate:"omitempty,oneof=seconds minutes hours"`
	Cron    string `json:"cron" validate:"max=128"`
}

// IntervalRequest edits the interval value.
type IntervalRequest struct {
	Value string `json:"value" validate:"max=16"`
}

// UnitRequest edits the interval unit.
type UnitRequest struct {
	Unit string `json:"unit" validate:"required,oneof=seconds minutes hours"`
}

type requestValidator struct {
	validate *validator.Validate
}

func newValidator() echo.Validator {
	return &requestValidator{validate: validator.New()}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// bind decodes and validates a JSON body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return Err(http.StatusBadRequest, "", "invalid JSON: %s", err.Error())
	}
	if err := c.Validate(req); err != nil {
		return Err(http.StatusBadRequest, "", "invalid request: %s", err.Error())
	}
	return nil
}

// scheduleErr maps dashboard schedule errors to API errors.
func scheduleErr(err error) error {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, dashboard.ErrLocked):
		return Err(http.StatusConflict, "", "%s", err.Error())
	case errors.As(err, &ve):
		return Err(http.StatusUnprocessableEntity, "", "%s", err.Error())
	default:
		return Err(http.StatusInternalServerError, "", "%s", err.Error())
	}
}

// errorHandler renders every handler error as an Error body.
func errorHandler(err error, c echo.Context) {
	var apiErr Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &he):
		apiErr = Err(he.Code, "", "%v", he.Message)
	default:
		slog.Error("unhandled server error", "path", c.Request().URL.Path, "error", err)
		apiErr = Err(http.StatusInternalServerError, "", "%s", err.Error())
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		c.NoContent(apiErr.Code)
		return
	}
	c.JSON(apiErr.Code, apiErr)
}
