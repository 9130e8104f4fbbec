package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hejijunhao/botdeck/internal/model"
)

// Unit is the unit of a schedule interval.
type Unit string

const (
	Seconds Unit = "seconds"
	Minutes Unit = "minutes"
	Hours   Unit = "hours"
)

const (
	// DefaultValue is used when the interval value is absent or unparsable.
	DefaultValue = 5
	// MinInterval is the hard floor for any schedule.
	MinInterval = time.Second
)

var unitDurations = map[Unit]time.Duration{
	Seconds: time.Second,
	Minutes: time.Minute,
	Hours:   time.Hour,
}

// ParseUnit converts "seconds", "minutes" or "hours" (any case) to a Unit.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := unitDurations[u]; !ok {
		return "", &model.ValidationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", s)}
	}
	return u, nil
}

// Interval converts a value and unit to a duration. An unparsable or empty
// value counts as DefaultValue. Results below MinInterval are rejected.
func Interval(value string, unit Unit) (time.Duration, error) {
	mult, ok := unitDurations[unit]
	if !ok {
		return 0, &model.ValidationError{Field: "unit", Reason: fmt.Sprintf("unknown unit %q", unit)}
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n = DefaultValue
	}
	d := time.Duration(n) * mult
	if d < MinInterval || d/mult != time.Duration(n) {
		return 0, &model.ValidationError{Field: "interval", Reason: "must be at least 1 second"}
	}
	return d, nil
}

// Describe renders an interval the way the controls express it.
func Describe(value string, unit Unit) string {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		n = DefaultValue
	}
	return fmt.Sprintf("%d %s", n, unit)
}
