package model

import "time"

// UpdateKind names the display region an Update targets.
type UpdateKind string

const (
	UpdateLogs     UpdateKind = "logs"
	UpdateStatus   UpdateKind = "status"
	UpdateError    UpdateKind = "error"
	UpdateToast    UpdateKind = "toast"
	UpdateControls UpdateKind = "controls"
	UpdateActivity UpdateKind = "activity"
)

// ToastLevel styles a transient notification.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

// Toast is a transient notification.
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

// Update is a single change pushed to the output sinks. Only the field that
// matches Kind is set.
type Update struct {
	Kind     UpdateKind   `json:"kind"`
	Time     time.Time    `json:"time"`
	Logs     *RenderModel `json:"logs,omitempty"`
	Status   Status       `json:"status,omitempty"`
	Error    string       `json:"error,omitempty"` // empty clears the banner
	Toast    *Toast       `json:"toast,omitempty"`
	Controls *Controls    `json:"controls,omitempty"`
	Activity string       `json:"activity,omitempty"`
}
