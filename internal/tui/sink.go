package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hejijunhao/botdeck/internal/model"
)

// Sender is the part of *tea.Program the sink needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Output forwards dashboard updates into a running program. Send blocks
// until the event loop takes the message, so wrap it in an async output.
type Output struct {
	p Sender
}

// NewOutput returns an Output feeding p.
func NewOutput(p Sender) *Output {
	return &Output{p: p}
}

func (o *Output) Write(_ context.Context, u model.Update) error {
	o.p.Send(updateMsg(u))
	return nil
}

func (o *Output) Close() error {
	return nil
}
