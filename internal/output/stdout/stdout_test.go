package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hejijunhao/botdeck/internal/model"
	"github.com/hejijunhao/botdeck/internal/output"
)

func testUpdate() model.Update {
	return model.Update{
		Kind: model.UpdateLogs,
		Time: time.Date(2026, 2, 19, 12, 0, 0, 0, time.UTC),
		Logs: &model.RenderModel{
			Entries: []model.Entry{{
				Index:   1,
				LogLine: model.LogLine{Raw: "ERROR boom", Category: model.CategoryError, Body: "ERROR boom", HTML: "ERROR boom"},
			}},
			Total: 1,
		},
	}
}

func TestOutputCompactJSON(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.Standard, false)
	if err := out.Write(context.Background(), testUpdate()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["kind"] != "logs" {
		t.Errorf("kind = %v, want logs", m["kind"])
	}
	logs := m["logs"].(map[string]any)
	entry := logs["entries"].([]any)[0].(map[string]any)
	if entry["category"] != "error" {
		t.Errorf("category = %v, want error", entry["category"])
	}
	if _, ok := entry["raw"]; ok {
		t.Error("raw must never be serialized")
	}
	if entry["html"] != "" {
		t.Errorf("html should be empty at Standard, got %v", entry["html"])
	}
}

func TestOutputPrettyJSON(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.Full, true)
	out.Write(context.Background(), model.Update{Kind: model.UpdateStatus, Status: model.StatusConnected})

	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("expected indented output, got %q", buf.String())
	}
}

func TestOutputOmitsUnsetFields(t *testing.T) {
	var buf bytes.Buffer
	out := New(&buf, output.Full, false)
	out.Write(context.Background(), model.Update{Kind: model.UpdateActivity, Activity: "Schedule disabled"})

	for _, key := range []string{`"logs"`, `"toast"`, `"controls"`, `"status"`} {
		if strings.Contains(buf.String(), key) {
			t.Errorf("unexpected %s in %s", key, buf.String())
		}
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestOutputWriteError(t *testing.T) {
	out := New(failWriter{}, output.Full, false)
	err := out.Write(context.Background(), testUpdate())
	if err == nil || !strings.Contains(err.Error(), "stdout output") {
		t.Fatalf("err = %v", err)
	}
}
