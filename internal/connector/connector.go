package connector

import (
	"context"
	"time"
)

// Connector defines the interface all log sources must implement.
type Connector interface {
	// Fetch returns the full text of the log resource. Non-2xx responses are
	// reported as *httpclient.APIError, transport failures as *model.NetworkError.
	Fetch(ctx context.Context, cfg ConnectorConfig) (string, error)
}

// ConnectorConfig holds source-specific settings.
type ConnectorConfig struct {
	Provider string
	Endpoint string // URL or path of the log resource
	Timeout  time.Duration
	Extra    map[string]string
}
