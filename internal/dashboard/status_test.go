package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/botdeck/internal/model"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		bot       model.BotState
		scheduled bool
		connected bool
		want      model.Status
	}{
		{"before first fetch", model.BotIdle, false, false, model.StatusConnecting},
		{"connected", model.BotIdle, false, true, model.StatusConnected},
		{"scheduled beats connected", model.BotIdle, true, true, model.StatusScheduled},
		{"running beats scheduled", model.BotRunning, true, true, model.StatusRunning},
		{"running without a fetch", model.BotRunning, false, false, model.StatusRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Resolve(tt.bot, tt.scheduled, tt.connected))
		})
	}
}

func TestControlsFor(t *testing.T) {
	idle := ControlsFor(model.BotIdle, true)
	require.Equal(t, model.Controls{Start: true, Interval: true, Unit: true, Toggle: true, Scheduled: true}, idle)

	running := ControlsFor(model.BotRunning, true)
	require.Equal(t, model.Controls{Stop: true, Scheduled: true}, running)
}
