package output

import (
	"fmt"
	"strings"

	"github.com/hejijunhao/botdeck/internal/model"
)

// Verbosity controls how much of a logs update is serialized.
type Verbosity int

const (
	// Minimal keeps only the counters of a logs update.
	Minimal Verbosity = iota
	// Standard keeps entries but drops their HTML rendering.
	Standard
	// Full keeps everything.
	Full
)

func (v Verbosity) String() string {
	switch v {
	case Minimal:
		return "minimal"
	case Full:
		return "full"
	default:
		return "standard"
	}
}

// ParseVerbosity maps a config string to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimal":
		return Minimal, nil
	case "", "standard":
		return Standard, nil
	case "full":
		return Full, nil
	}
	return Standard, fmt.Errorf("unknown verbosity %q", s)
}

// FormatUpdate returns a copy of u with fields stripped according to
// verbosity. Only logs updates are affected; the input is never modified.
func FormatUpdate(u model.Update, verbosity Verbosity) model.Update {
	if u.Logs == nil || verbosity == Full {
		return u
	}
	logs := *u.Logs
	if verbosity == Minimal {
		logs.Entries = nil
	} else {
		entries := make([]model.Entry, len(logs.Entries))
		for i, e := range logs.Entries {
			e.HTML = ""
			entries[i] = e
		}
		logs.Entries = entries
	}
	u.Logs = &logs
	return u
}
