package engine

import (
	"strings"
	"time"

	"github.com/hejijunhao/botdeck/internal/engine/classifier"
	"github.com/hejijunhao/botdeck/internal/engine/sanitize"
	"github.com/hejijunhao/botdeck/internal/model"
)

// Engine orchestrates the split → classify → extract → escape pipeline that
// turns a fetched log body into a render model.
type Engine struct {
	classifier *classifier.Classifier
}

// New creates an Engine with the provided classifier.
func New(cls *classifier.Classifier) *Engine {
	return &Engine{classifier: cls}
}

// Process classifies a single non-blank log line.
func (e *Engine) Process(raw string) model.LogLine {
	ts, body := classifier.ExtractTimestamp(raw)
	return model.LogLine{
		Raw:       raw,
		Category:  e.classifier.Classify(raw),
		Timestamp: ts,
		Body:      body,
		HTML:      sanitize.HTML(body),
	}
}

// Render splits text into lines, drops blank ones, and returns them newest
// first (the last line of the file becomes entry 1). Blank input yields an
// empty model with the placeholder flag set.
func (e *Engine) Render(text string, now time.Time) model.RenderModel {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return model.RenderModel{Entries: []model.Entry{}, Empty: true, UpdatedAt: now}
	}

	entries := make([]model.Entry, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		entries = append(entries, model.Entry{
			Index:   len(entries) + 1,
			LogLine: e.Process(lines[i]),
		})
	}
	return model.RenderModel{Entries: entries, Total: len(entries), UpdatedAt: now}
}

// SplitLines splits text on newlines and drops blank or whitespace-only
// lines. A trailing carriage return is removed from each line.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
