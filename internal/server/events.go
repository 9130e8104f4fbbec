package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const defaultKeepAlive = 15 * time.Second

// Events streams updates as server-sent events. The first event, "state",
// carries a full snapshot; each later event is named after the update kind.
func (h *Handler) Events(c echo.Context) error {
	if h.hub == nil {
		return Err(http.StatusNotFound, "", "event stream disabled")
	}
	return h.stream(c, defaultKeepAlive)
}

func (h *Handler) stream(c echo.Context, keepAlive time.Duration) error {
	// Subscribe before the snapshot so no update falls between the two.
	updates := h.hub.Subscribe()
	defer h.hub.Unsubscribe(updates)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream; charset=UTF-8")
	res.Header().Set(echo.HeaderCacheControl, "no-store")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	if err := writeEvent(res, "state", h.d.State()); err != nil {
		return nil
	}

	ticker := time.NewTicker(keepAlive)
	defer ticker.Stop()
	ctx := c.Request().Context()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := res.Write([]byte(":keepalive\n\n")); err != nil {
				return nil
			}
			res.Flush()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := writeEvent(res, string(u.Kind), u); err != nil {
				return nil
			}
		}
	}
}

func writeEvent(res *echo.Response, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := res.Write([]byte("event: " + name + "\ndata: ")); err != nil {
		return err
	}
	if _, err := res.Write(data); err != nil {
		return err
	}
	if _, err := res.Write([]byte("\n\n")); err != nil {
		return err
	}
	res.Flush()
	return nil
}
