package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hejijunhao/botdeck/internal/model"
	"github.com/hejijunhao/botdeck/internal/output"
)

// Output writes JSON-encoded updates, one per line, to a writer (stdout by
// default).
type Output struct {
	enc       *json.Encoder
	verbosity output.Verbosity
}

// New creates an Output writing to w with verbosity-aware field omission and
// optional pretty-printed JSON. A nil w means os.Stdout.
func New(w io.Writer, verbosity output.Verbosity, pretty bool) *Output {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, verbosity: verbosity}
}

func (o *Output) Write(_ context.Context, u model.Update) error {
	if err := o.enc.Encode(output.FormatUpdate(u, o.verbosity)); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
