package bot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/botdeck/internal/connector/httpclient"
	"github.com/hejijunhao/botdeck/internal/model"
)

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/process-pdfs"
}

func TestHTTPTrigger_Success(t *testing.T) {
	tr := NewHTTPTrigger(serve(t, 200, `{"message":"Processing started"}`), time.Second)
	res, err := tr.Trigger(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Processing started", res.Message)
}

func TestHTTPTrigger_ErrorPayload(t *testing.T) {
	tr := NewHTTPTrigger(serve(t, 409, `{"error":"already processing"}`), time.Second)
	_, err := tr.Trigger(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "already processing")

	var apiErr *httpclient.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 409, apiErr.StatusCode)
}

func TestHTTPTrigger_Non2xxPlainBody(t *testing.T) {
	tr := NewHTTPTrigger(serve(t, 502, `Bad Gateway`), time.Second)
	_, err := tr.Trigger(context.Background())

	var apiErr *httpclient.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, 502, apiErr.StatusCode)
}

func TestHTTPTrigger_UnusablePayloads(t *testing.T) {
	for _, body := range []string{``, `not json`, `{}`, `{"message":"  "}`, `{"status":"ok"}`, `{"error":"disk full"}`, `[1,2]`} {
		tr := NewHTTPTrigger(serve(t, 200, body), time.Second)
		_, err := tr.Trigger(context.Background())

		var pe *model.PayloadError
		require.Truef(t, errors.As(err, &pe), "body %q: expected PayloadError, got %v", body, err)
	}
}
