package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/botdeck/internal/model"
)

func TestInterval(t *testing.T) {
	tests := []struct {
		value string
		unit  Unit
		want  time.Duration
	}{
		{"1", Seconds, time.Second},
		{"30", Seconds, 30 * time.Second},
		{"5", Minutes, 5 * time.Minute},
		{"1", Hours, 3_600_000 * time.Millisecond},
		{"", Minutes, 5 * time.Minute},
		{"abc", Seconds, 5 * time.Second},
		{" 2 ", Hours, 2 * time.Hour},
	}
	for _, tt := range tests {
		got, err := Interval(tt.value, tt.unit)
		require.NoErrorf(t, err, "Interval(%q, %s)", tt.value, tt.unit)
		require.Equalf(t, tt.want, got, "Interval(%q, %s)", tt.value, tt.unit)
	}
}

func TestInterval_BelowFloor(t *testing.T) {
	for _, value := range []string{"0", "-1", "-30"} {
		_, err := Interval(value, Seconds)
		var ve *model.ValidationError
		require.Truef(t, errors.As(err, &ve), "value %q: expected ValidationError, got %v", value, err)
		require.Equal(t, "interval", ve.Field)
	}
}

func TestInterval_Overflow(t *testing.T) {
	_, err := Interval("9223372036854775807", Hours)
	require.Error(t, err)
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("Minutes")
	require.NoError(t, err)
	require.Equal(t, Minutes, u)

	_, err = ParseUnit("days")
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "unit", ve.Field)

	_, err = Interval("5", Unit("days"))
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	require.Equal(t, "10 seconds", Describe("10", Seconds))
	require.Equal(t, "5 minutes", Describe("x", Minutes))
}

func TestCronCadence(t *testing.T) {
	now, err := time.Parse(time.RFC3339, "2023-03-20T11:05:39Z")
	require.NoError(t, err)

	c, err := NewCronCadence("* * * * *", now)
	require.NoError(t, err)
	require.Equal(t, "* * * * *", c.Expr())

	d, err := c.Next(now)
	require.NoError(t, err)
	require.Equal(t, 21*time.Second, d)

	d, err = c.Next(now.Add(21 * time.Second))
	require.NoError(t, err)
	require.Equal(t, 60*time.Second, d)
}

func TestCronCadence_Invalid(t *testing.T) {
	_, err := NewCronCadence("not a cron", time.Now())
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, "cron", ve.Field)
}
