package httplog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hejijunhao/botdeck/internal/connector"
	"github.com/hejijunhao/botdeck/internal/connector/httpclient"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cache-Control") != "no-cache" {
			t.Errorf("expected no-cache header")
		}
		w.Write([]byte("2024-01-01 10:00:00 INFO boot\n"))
	}))
	defer srv.Close()

	c := &Connector{}
	body, err := c.Fetch(context.Background(), connector.ConnectorConfig{
		Endpoint: srv.URL + "/logs.txt",
		Timeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "2024-01-01 10:00:00 INFO boot\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := (&Connector{}).Fetch(context.Background(), connector.ConnectorConfig{Endpoint: srv.URL})
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
}

func TestFetch_MissingEndpoint(t *testing.T) {
	if _, err := (&Connector{}).Fetch(context.Background(), connector.ConnectorConfig{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRegistered(t *testing.T) {
	if _, err := connector.Get("http"); err != nil {
		t.Fatalf("http connector not registered: %v", err)
	}
}
