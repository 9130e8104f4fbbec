// Package server is the web surface: an HTML dashboard, a JSON control API
// and a server-sent event stream.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/hejijunhao/botdeck/internal/metrics"
	"github.com/hejijunhao/botdeck/internal/output/hub"
)

const defaultShutdownTimeout = 5 * time.Second

// Config holds the server's collaborators.
type Config struct {
	Address   string
	Title     string
	Dashboard Dashboard
	Hub       *hub.Hub         // nil disables /api/events
	Metrics   *metrics.Metrics // nil disables /metrics

	ShutdownTimeout time.Duration
}

// Server wraps an echo instance.
type Server struct {
	echo     *echo.Echo
	addr     string
	hub      *hub.Hub
	shutdown time.Duration
}

// New builds the router.
func New(cfg Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Validator = newValidator()
	e.Renderer = &renderer{tmpl: pageTemplate}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Path()
			return p == "/api/events" || p == "/healthz" || p == "/metrics"
		},
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds()}
			if v.Error != nil {
				slog.Warn("http request", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Debug("http request", attrs...)
			return nil
		},
	}))

	title := cfg.Title
	if title == "" {
		title = "botdeck"
	}

	h := NewHandler(cfg.Dashboard, cfg.Hub)
	e.GET("/", h.Index(title))
	e.GET("/healthz", h.Healthz)

	api := e.Group("/api")
	api.GET("/state", h.State)
	api.GET("/events", h.Events)
	api.POST("/refresh", h.Refresh)
	api.POST("/autorefresh", h.AutoRefresh)
	api.POST("/visibility", h.Visibility)
	api.POST("/clear", h.Clear)
	api.POST("/bot/start", h.BotStart)
	api.POST("/bot/stop", h.BotStop)
	api.POST("/schedule", h.Schedule)
	api.POST("/schedule/interval", h.Interval)
	api.POST("/schedule/unit", h.Unit)

	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.HTTPHandler()))
	}

	shutdown := cfg.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}
	return &Server{echo: e, addr: cfg.Address, hub: cfg.Hub, shutdown: shutdown}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then disconnects event streams and
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("web server listening", "address", s.addr)
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	if s.hub != nil {
		s.hub.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("web server stopped")
	return nil
}
