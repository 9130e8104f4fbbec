package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/hejijunhao/botdeck/internal/bot"
	"github.com/hejijunhao/botdeck/internal/config"
	"github.com/hejijunhao/botdeck/internal/connector"
	"github.com/hejijunhao/botdeck/internal/dashboard"
	"github.com/hejijunhao/botdeck/internal/logging"
	"github.com/hejijunhao/botdeck/internal/metrics"
	"github.com/hejijunhao/botdeck/internal/model"
	"github.com/hejijunhao/botdeck/internal/output"
	"github.com/hejijunhao/botdeck/internal/output/async"
	"github.com/hejijunhao/botdeck/internal/output/file"
	"github.com/hejijunhao/botdeck/internal/output/hub"
	"github.com/hejijunhao/botdeck/internal/output/multi"
	"github.com/hejijunhao/botdeck/internal/output/stdout"
	"github.com/hejijunhao/botdeck/internal/output/webhook"
	"github.com/hejijunhao/botdeck/internal/schedule"
	"github.com/hejijunhao/botdeck/internal/server"
	"github.com/hejijunhao/botdeck/internal/tui"

	// Register connector implementations.
	_ "github.com/hejijunhao/botdeck/internal/connector/file"
	_ "github.com/hejijunhao/botdeck/internal/connector/httplog"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "botdeck.yaml", "path to YAML config file")
	envPath := flag.String("env", ".env", "path to .env file")
	mode := flag.String("mode", "", "web, tui or headless (overrides config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("botdeck", config.Version)
		return 0
	}

	if err := config.LoadDotEnv(*envPath); err != nil {
		fmt.Fprintf(os.Stderr, "botdeck: %v\n", err)
		return 1
	}
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "botdeck: %v\n", err)
		return 1
	}
	if *mode != "" {
		cfg.Mode = *mode
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "botdeck: %v\n", err)
		return 1
	}

	logOut, closeLog, err := logWriter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "botdeck: %v\n", err)
		return 1
	}
	defer closeLog()
	logging.Init(logOut, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg); err != nil {
		slog.Error("botdeck stopped", "error", err)
		return 1
	}
	return 0
}

// logWriter keeps diagnostics off the terminal in TUI mode and off stdout in
// headless mode, where stdout carries NDJSON.
func logWriter(cfg config.Config) (io.Writer, func(), error) {
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.Mode == "tui" {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

func serve(ctx context.Context, cfg config.Config) error {
	ctor, err := connector.Get(cfg.Source.Provider)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}
	source := ctor()
	sourceCfg := connector.ConnectorConfig{
		Provider: cfg.Source.Provider,
		Endpoint: cfg.Source.URL,
		Timeout:  cfg.Source.Timeout,
	}
	trigger := bot.NewHTTPTrigger(cfg.Bot.URL, cfg.Bot.Timeout)

	verbosity, err := output.ParseVerbosity(cfg.Output.Verbosity)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.Server.Metrics {
		m = metrics.New()
	}

	onSinkError := func(err error) { slog.Warn("output error", "error", err) }
	sinks := []output.Output{}

	var h *hub.Hub
	if cfg.Mode == "web" {
		h = hub.New(0)
		sinks = append(sinks, h)
	}
	if cfg.Mode == "headless" {
		sinks = append(sinks, async.New(stdout.New(os.Stdout, verbosity, cfg.Output.Pretty), async.WithOnError(onSinkError)))
	}
	if cfg.Output.JournalFile != "" {
		journal, err := file.New(cfg.Output.JournalFile, verbosity, file.WithMaxSize(cfg.Output.JournalMaxSize))
		if err != nil {
			return err
		}
		sinks = append(sinks, async.New(journal, async.WithOnError(onSinkError)))
	}
	if cfg.Output.WebhookURL != "" {
		hook := webhook.New(cfg.Output.WebhookURL, cfg.Title, webhook.WithOnError(onSinkError))
		sinks = append(sinks, async.New(
			output.Only(hook, model.UpdateToast, model.UpdateError, model.UpdateActivity),
			async.WithDropOnFull(),
			async.WithOnError(onSinkError),
		))
	}

	// The terminal program only exists once tui.Run starts; updates published
	// before then are dropped.
	var program atomic.Pointer[tui.Output]
	if cfg.Mode == "tui" {
		relay := output.Func(func(ctx context.Context, u model.Update) error {
			if p := program.Load(); p != nil {
				return p.Write(ctx, u)
			}
			return nil
		})
		sinks = append(sinks, async.New(relay, async.WithDropOnFull()))
	}

	out := multi.New(sinks...)
	d := dashboard.New(ctx, source, sourceCfg, trigger,
		dashboard.WithOutput(out),
		dashboard.WithMetrics(m),
		dashboard.WithRefreshInterval(cfg.Source.RefreshInterval),
	)
	defer func() {
		d.Close()
		if err := out.Close(); err != nil {
			slog.Warn("closing outputs", "error", err)
		}
	}()

	if err := initialSchedule(d, cfg.Schedule); err != nil {
		slog.Warn("initial schedule rejected", "error", err)
	}
	if cfg.Source.AutoRefresh {
		d.StartAutoRefresh()
	} else {
		d.Refresh(ctx)
	}

	slog.Info("botdeck starting", "mode", cfg.Mode, "source", cfg.Source.Provider, "version", config.Version)

	switch cfg.Mode {
	case "web":
		srv := server.New(server.Config{
			Address:   cfg.Server.Address,
			Title:     cfg.Title,
			Dashboard: d,
			Hub:       h,
			Metrics:   m,

			ShutdownTimeout: cfg.ShutdownTimeout,
		})
		return srv.Run(ctx)
	case "tui":
		return tui.Run(ctx, d, cfg.Title, func(s tui.Sender) {
			program.Store(tui.NewOutput(s))
		})
	default:
		<-ctx.Done()
		return nil
	}
}

func initialSchedule(d *dashboard.Dashboard, sc config.ScheduleConfig) error {
	if !sc.Enabled {
		return nil
	}
	if sc.Cron != "" {
		return d.EnableCron(sc.Cron)
	}
	unit, err := schedule.ParseUnit(sc.Unit)
	if err != nil {
		return err
	}
	return d.EnableSchedule(sc.Value, unit)
}
