package httplog

import (
	"context"
	"fmt"

	"github.com/hejijunhao/botdeck/internal/connector"
	"github.com/hejijunhao/botdeck/internal/connector/httpclient"
)

func init() {
	connector.Register("http", func() connector.Connector {
		return &Connector{}
	})
}

// Connector fetches a plain-text log resource with a single HTTP GET.
type Connector struct{}

func (c *Connector) Fetch(ctx context.Context, cfg connector.ConnectorConfig) (string, error) {
	if cfg.Endpoint == "" {
		return "", fmt.Errorf("http connector: missing endpoint")
	}
	client := httpclient.New(cfg.Endpoint,
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithHeader("Accept", "text/plain"),
		httpclient.WithHeader("Cache-Control", "no-cache"),
	)
	return client.GetText(ctx, "")
}
