package file

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hejijunhao/botdeck/internal/connector"
)

func init() {
	connector.Register("file", func() connector.Connector {
		return &Connector{}
	})
}

// Connector reads the log resource from the local filesystem. Useful when the
// bot writes its log next to botdeck.
type Connector struct{}

func (c *Connector) Fetch(ctx context.Context, cfg connector.ConnectorConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := strings.TrimPrefix(cfg.Endpoint, "file://")
	if path == "" {
		return "", fmt.Errorf("file connector: missing path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("file connector: %w", err)
	}
	return string(data), nil
}
