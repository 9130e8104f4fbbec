package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hejijunhao/botdeck/internal/model"
)

func toast(msg string) model.Update {
	return model.Update{
		Kind:  model.UpdateToast,
		Time:  time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
		Toast: &model.Toast{Level: model.ToastError, Message: msg},
	}
}

type recorder struct {
	mu       sync.Mutex
	payloads []Payload
	headers  []http.Header
}

func (r *recorder) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var p Payload
		json.NewDecoder(req.Body).Decode(&p)
		r.mu.Lock()
		r.payloads = append(r.payloads, p)
		r.headers = append(r.headers, req.Header.Clone())
		r.mu.Unlock()
		w.WriteHeader(status)
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads)
}

func TestFlushAtBatchSize(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(200))
	defer srv.Close()

	out := New(srv.URL, "botdeck-test", WithBatchSize(3), WithFlushInterval(time.Hour))
	for i := 0; i < 3; i++ {
		if err := out.Write(context.Background(), toast("Bot failed")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if rec.count() != 1 {
		t.Fatalf("got %d posts, want 1", rec.count())
	}
	p := rec.payloads[0]
	if p.Source != "botdeck-test" || len(p.Updates) != 3 {
		t.Errorf("payload = %+v", p)
	}
	if p.Updates[0].Toast == nil || p.Updates[0].Toast.Message != "Bot failed" {
		t.Errorf("update not round-tripped: %+v", p.Updates[0])
	}
}

func TestTimerFlush(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(200))
	defer srv.Close()

	out := New(srv.URL, "t", WithBatchSize(100), WithFlushInterval(20*time.Millisecond))
	out.Write(context.Background(), toast("one"))

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if rec.count() != 1 {
		t.Fatalf("timer flush did not happen")
	}
}

func TestCloseFlushesPending(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(200))
	defer srv.Close()

	out := New(srv.URL, "t", WithFlushInterval(time.Hour))
	out.Write(context.Background(), toast("a"))
	out.Write(context.Background(), toast("b"))
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	if rec.count() != 1 || len(rec.payloads[0].Updates) != 2 {
		t.Fatalf("Close did not flush the pending batch")
	}
	if err := out.Close(); err != nil {
		t.Fatalf("empty Close: %v", err)
	}
	if rec.count() != 1 {
		t.Fatal("empty Close should not POST")
	}
}

func TestHeaders(t *testing.T) {
	rec := &recorder{}
	srv := httptest.NewServer(rec.handler(204))
	defer srv.Close()

	out := New(srv.URL, "t", WithBatchSize(1), WithHeaders(map[string]string{"X-Token": "abc"}))
	if err := out.Write(context.Background(), toast("x")); err != nil {
		t.Fatal(err)
	}
	if rec.headers[0].Get("X-Token") != "abc" {
		t.Error("custom header missing")
	}
	if rec.headers[0].Get("Content-Type") != "application/json" {
		t.Error("content type missing")
	}
}

func TestServerErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(503)
	}))
	defer srv.Close()

	out := New(srv.URL, "t", WithBatchSize(1))
	err := out.Write(context.Background(), toast("x"))
	if err == nil || !strings.Contains(err.Error(), "HTTP 503") {
		t.Fatalf("err = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestTimerFlushErrorCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer srv.Close()

	errs := make(chan error, 1)
	out := New(srv.URL, "t", WithFlushInterval(10*time.Millisecond), WithOnError(func(err error) { errs <- err }))
	out.Write(context.Background(), toast("x"))

	select {
	case err := <-errs:
		if !strings.Contains(err.Error(), "HTTP 500") {
			t.Errorf("err = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error callback not invoked")
	}
}
