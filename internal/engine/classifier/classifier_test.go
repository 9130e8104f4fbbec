package classifier

import (
	"testing"

	"github.com/hejijunhao/botdeck/internal/model"
)

func TestClassify(t *testing.T) {
	c := New()
	tests := []struct {
		line string
		want model.Category
	}{
		{"ERROR: connection refused", model.CategoryError},
		{"unhandled Exception in worker", model.CategoryError},
		{"job FAILED after 3s", model.CategoryError},
		{"Warning: disk at 91%", model.CategoryWarning},
		{"WARN slow query", model.CategoryWarning},
		{"upload success", model.CategorySuccess},
		{"batch Completed", model.CategorySuccess},
		{"OK done", model.CategorySuccess},
		{"INFO starting", model.CategoryInfo},
		{"debug: cache miss", model.CategoryInfo},
		{"processing page 4", model.CategoryNone},
	}

	for _, tt := range tests {
		if got := c.Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestClassify_ErrorTakesPriority(t *testing.T) {
	c := New()
	lines := []string{
		"WARNING: retry failed",
		"completed with error",
		"info: exception swallowed, status ok",
		"DEBUG success=false Failed",
	}
	for _, line := range lines {
		if got := c.Classify(line); got != model.CategoryError {
			t.Errorf("Classify(%q) = %q, want error", line, got)
		}
	}
}

func TestClassify_FirstMatchingRuleWins(t *testing.T) {
	c := New()
	if got := c.Classify("warn: request ok"); got != model.CategoryWarning {
		t.Fatalf("expected warning over success, got %q", got)
	}
	if got := c.Classify("info: job completed"); got != model.CategorySuccess {
		t.Fatalf("expected success over info, got %q", got)
	}
}

func TestClassify_CustomRules(t *testing.T) {
	c := New(Rule{Category: model.CategoryWarning, Keywords: []string{"SLOW"}})
	if got := c.Classify("request was slow"); got != model.CategoryWarning {
		t.Fatalf("expected warning, got %q", got)
	}
	if got := c.Classify("ERROR boom"); got != model.CategoryNone {
		t.Fatalf("custom rules replace defaults, got %q", got)
	}
}

func TestExtractTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		wantTS string
		body   string
	}{
		{"iso", "2024-01-01 10:00:00 ERROR Failed to connect", "2024-01-01 10:00:00", "ERROR Failed to connect"},
		{"us", "started 01/31/2024 08:15:00 worker", "01/31/2024 08:15:00", "started  worker"},
		{"time only", "10:00:05 OK done", "10:00:05", "OK done"},
		// The unbracketed ISO pattern is tried first and leaves the brackets.
		{"bracketed", "[2024-01-01 10:00:00] boot", "2024-01-01 10:00:00", "[] boot"},
		{"none", "  plain line  ", "", "plain line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, body := ExtractTimestamp(tt.line)
			if ts != tt.wantTS {
				t.Errorf("ts = %q, want %q", ts, tt.wantTS)
			}
			if body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
		})
	}
}

func TestExtractTimestamp_StrippedBodyDoesNotRematch(t *testing.T) {
	lines := []string{
		"2024-01-01 10:00:00 ERROR Failed to connect",
		"01/31/2024 08:15:00 queued",
		"at 23:59:59 rotated",
	}
	for _, line := range lines {
		ts, body := ExtractTimestamp(line)
		if ts == "" {
			t.Fatalf("expected timestamp in %q", line)
		}
		if again, _ := ExtractTimestamp(body); again != "" {
			t.Errorf("body %q of %q still contains timestamp %q", body, line, again)
		}
	}
}

func TestExtractTimestamp_FirstOccurrenceOnly(t *testing.T) {
	ts, body := ExtractTimestamp("10:00:00 retry at 10:00:00")
	if ts != "10:00:00" {
		t.Fatalf("unexpected ts %q", ts)
	}
	if body != "retry at 10:00:00" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestExtractTimestamp_SpliceIsSinglePass(t *testing.T) {
	// Removing the match can join its neighbours into a new timestamp. Only
	// the first occurrence is ever taken out.
	ts, body := ExtractTimestamp("10:0010:00:00:00 x")
	if ts != "10:00:00" {
		t.Fatalf("unexpected ts %q", ts)
	}
	if body != "10:00:00 x" {
		t.Fatalf("unexpected body %q", body)
	}
}
