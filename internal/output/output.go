package output

import (
	"context"

	"github.com/hejijunhao/botdeck/internal/model"
)

// Output defines the interface for dashboard update destinations. Write must
// not block on the producer for long and must not call back into the
// dashboard that feeds it.
type Output interface {
	Write(ctx context.Context, u model.Update) error
	Close() error
}

// Func adapts a plain function to Output. Close is a no-op.
type Func func(ctx context.Context, u model.Update) error

func (f Func) Write(ctx context.Context, u model.Update) error { return f(ctx, u) }

func (f Func) Close() error { return nil }

// Only forwards updates whose kind is listed and drops the rest.
func Only(inner Output, kinds ...model.UpdateKind) Output {
	set := make(map[model.UpdateKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return &filtered{inner: inner, kinds: set}
}

type filtered struct {
	inner Output
	kinds map[model.UpdateKind]bool
}

func (f *filtered) Write(ctx context.Context, u model.Update) error {
	if !f.kinds[u.Kind] {
		return nil
	}
	return f.inner.Write(ctx, u)
}

func (f *filtered) Close() error { return f.inner.Close() }
