package dashboard

import "github.com/hejijunhao/botdeck/internal/model"

// Resolve computes the status indicator from the current state, in
// precedence order Running > Scheduled > Connected. Before the first
// successful fetch the status is Connecting.
func Resolve(bot model.BotState, scheduled, connected bool) model.Status {
	switch {
	case bot == model.BotRunning:
		return model.StatusRunning
	case scheduled:
		return model.StatusScheduled
	case connected:
		return model.StatusConnected
	default:
		return model.StatusConnecting
	}
}

// ControlsFor returns the control split for a bot state.
func ControlsFor(bot model.BotState, scheduled bool) model.Controls {
	if bot == model.BotRunning {
		return model.RunningControls(scheduled)
	}
	return model.IdleControls(scheduled)
}
