package model

// BotState tracks whether the remote job is believed to be running.
type BotState int

const (
	BotIdle BotState = iota
	BotRunning
)

func (s BotState) String() string {
	if s == BotRunning {
		return "running"
	}
	return "idle"
}

// Status is the top-level indicator shown by every surface.
type Status string

const (
	StatusConnecting Status = "connecting"
	StatusConnected  Status = "connected"
	StatusRunning    Status = "running"
	StatusScheduled  Status = "scheduled"
	StatusError      Status = "error"
	StatusCleared    Status = "cleared"
)

// Controls is the enabled/disabled split of the bot and schedule controls.
type Controls struct {
	Start    bool `json:"start"`
	Stop     bool `json:"stop"`
	Interval bool `json:"interval"`
	Unit     bool `json:"unit"`
	Toggle   bool `json:"toggle"`
	// Scheduled is the checked state of the schedule toggle.
	Scheduled bool `json:"scheduled"`
}

// IdleControls returns the default split: start enabled, stop disabled,
// schedule editing enabled.
func IdleControls(scheduled bool) Controls {
	return Controls{Start: true, Interval: true, Unit: true, Toggle: true, Scheduled: scheduled}
}

// RunningControls locks everything except stop.
func RunningControls(scheduled bool) Controls {
	return Controls{Stop: true, Scheduled: scheduled}
}
