package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hejijunhao/botdeck/internal/connector/httpclient"
	"github.com/hejijunhao/botdeck/internal/model"
)

// Result is the outcome of a successful trigger call.
type Result struct {
	Message string
}

// Trigger starts the remote job.
type Trigger interface {
	Trigger(ctx context.Context) (Result, error)
}

// payload is the job endpoint's response: {"message": ...} on success,
// {"error": ...} on failure. Either field may be missing.
type payload struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// HTTPTrigger starts the job with a single GET request.
type HTTPTrigger struct {
	client *httpclient.Client
}

// NewHTTPTrigger creates a trigger for the given job URL.
func NewHTTPTrigger(url string, timeout time.Duration) *HTTPTrigger {
	return &HTTPTrigger{
		client: httpclient.New(url,
			httpclient.WithTimeout(timeout),
			httpclient.WithHeader("Accept", "application/json"),
		),
	}
}

// Trigger issues the GET. A 2xx response must carry a non-empty message;
// anything else is an error. Bodies that are not JSON are tolerated and
// reported as *model.PayloadError (2xx) or *httpclient.APIError (non-2xx).
func (t *HTTPTrigger) Trigger(ctx context.Context) (Result, error) {
	body, err := t.client.Get(ctx, "", nil)
	var p payload
	decodeErr := json.Unmarshal(body, &p)

	if err != nil {
		var apiErr *httpclient.APIError
		if errors.As(err, &apiErr) && decodeErr == nil && p.Error != "" {
			return Result{}, fmt.Errorf("%s: %w", p.Error, err)
		}
		return Result{}, err
	}

	switch {
	case decodeErr != nil:
		return Result{}, &model.PayloadError{Reason: "response is not JSON"}
	case strings.TrimSpace(p.Message) != "":
		return Result{Message: p.Message}, nil
	case p.Error != "":
		return Result{}, &model.PayloadError{Reason: p.Error}
	default:
		return Result{}, &model.PayloadError{Reason: "missing message"}
	}
}
