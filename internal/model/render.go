package model

import "time"

// Entry is a LogLine at its 1-based display position.
type Entry struct {
	Index int `json:"index"`
	LogLine
}

// RenderModel is the display list computed from one fetch, newest line first.
// It replaces the previous model wholesale.
type RenderModel struct {
	Entries   []Entry   `json:"entries"`
	Total     int       `json:"total"`
	Empty     bool      `json:"empty"` // render the "no logs" placeholder
	UpdatedAt time.Time `json:"updated_at"`
}
