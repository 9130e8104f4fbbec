package schedule

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"github.com/hejijunhao/botdeck/internal/model"
)

// CronCadence fires at the times matched by a cron expression.
type CronCadence struct {
	expr string
}

// NewCronCadence validates expr. Expressions whose consecutive ticks are
// closer than MinInterval are rejected.
func NewCronCadence(expr string, now time.Time) (CronCadence, error) {
	g := gronx.New()
	if !g.IsValid(expr) {
		return CronCadence{}, &model.ValidationError{Field: "cron", Reason: fmt.Sprintf("invalid expression %q", expr)}
	}
	first, err := gronx.NextTickAfter(expr, now, false)
	if err != nil {
		return CronCadence{}, &model.ValidationError{Field: "cron", Reason: "no next tick"}
	}
	second, err := gronx.NextTickAfter(expr, first, false)
	if err == nil && second.Sub(first) < MinInterval {
		return CronCadence{}, &model.ValidationError{Field: "cron", Reason: "must be at least 1 second apart"}
	}
	return CronCadence{expr: expr}, nil
}

// Expr returns the cron expression.
func (c CronCadence) Expr() string { return c.expr }

// Next returns the delay until the next matching time after after.
func (c CronCadence) Next(after time.Time) (time.Duration, error) {
	t, err := gronx.NextTickAfter(c.expr, after, false)
	if err != nil {
		return -1, fmt.Errorf("no next time has been scheduled")
	}
	return t.Sub(after), nil
}
