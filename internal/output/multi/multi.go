package multi

import (
	"context"
	"errors"

	"github.com/hejijunhao/botdeck/internal/model"
	"github.com/hejijunhao/botdeck/internal/output"
)

// Multi fans each update out to several outputs in order. A failing output
// does not stop delivery to the ones after it.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over the given outputs. Nil entries are skipped.
func New(outputs ...output.Output) *Multi {
	m := &Multi{}
	for _, o := range outputs {
		if o != nil {
			m.outputs = append(m.outputs, o)
		}
	}
	return m
}

// Len returns the number of wrapped outputs.
func (m *Multi) Len() int {
	return len(m.outputs)
}

// Write delivers u to every output and joins their errors.
func (m *Multi) Write(ctx context.Context, u model.Update) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every output and joins their errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
