package multi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hejijunhao/botdeck/internal/model"
)

type mockOutput struct {
	updates []model.Update
	closed  bool
	err     error
}

func (m *mockOutput) Write(_ context.Context, u model.Update) error {
	m.updates = append(m.updates, u)
	return m.err
}

func (m *mockOutput) Close() error {
	m.closed = true
	return m.err
}

func activity(msg string) model.Update {
	return model.Update{Kind: model.UpdateActivity, Time: time.Now(), Activity: msg}
}

func TestFanOutDeliversToAll(t *testing.T) {
	a, b, c := &mockOutput{}, &mockOutput{}, &mockOutput{}
	m := New(a, b, c)

	if err := m.Write(context.Background(), activity("Schedule disabled")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, out := range []*mockOutput{a, b, c} {
		if len(out.updates) != 1 {
			t.Fatalf("output %d: got %d updates, want 1", i, len(out.updates))
		}
		if out.updates[0].Activity != "Schedule disabled" {
			t.Errorf("output %d: got %q", i, out.updates[0].Activity)
		}
	}
}

func TestErrorDoesNotPreventDelivery(t *testing.T) {
	failing := &mockOutput{err: errors.New("disk full")}
	healthy := &mockOutput{}
	m := New(failing, healthy)

	err := m.Write(context.Background(), activity("tick"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(healthy.updates) != 1 || len(failing.updates) != 1 {
		t.Fatalf("deliveries: failing=%d healthy=%d", len(failing.updates), len(healthy.updates))
	}
}

func TestCloseCollectsErrors(t *testing.T) {
	a := &mockOutput{err: errors.New("err-a")}
	b := &mockOutput{err: errors.New("err-b")}
	m := New(a, b)

	err := m.Close()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !a.closed || !b.closed {
		t.Error("Close should reach every output")
	}
	if err.Error() != "err-a\nerr-b" {
		t.Errorf("joined error = %q", err.Error())
	}
}

func TestNilOutputsSkipped(t *testing.T) {
	inner := &mockOutput{}
	m := New(nil, inner, nil)
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	if err := m.Write(context.Background(), activity("x")); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
	if len(inner.updates) != 1 || !inner.closed {
		t.Error("single wrapped output not driven")
	}
}
