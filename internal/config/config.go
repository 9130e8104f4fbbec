package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Version is the botdeck release version.
const Version = "0.3.0"

// Config holds all botdeck configuration.
type Config struct {
	Mode            string        `yaml:"mode" env:"BOTDECK_MODE" validate:"oneof=web tui headless"`
	Title           string        `yaml:"title" env:"BOTDECK_TITLE"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"BOTDECK_SHUTDOWN_TIMEOUT" validate:"gt=0"`
	ShowVersion     bool          `yaml:"-"`

	Source   SourceConfig   `yaml:"source"`
	Bot      BotConfig      `yaml:"bot"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Output   OutputConfig   `yaml:"output"`
}

// SourceConfig describes where the log text comes from.
type SourceConfig struct {
	Provider        string        `yaml:"provider" env:"BOTDECK_SOURCE" validate:"required"`
	URL             string        `yaml:"url" env:"BOTDECK_LOG_URL" validate:"required"`
	Timeout         time.Duration `yaml:"timeout" env:"BOTDECK_TIMEOUT" validate:"gte=0"`
	RefreshInterval time.Duration `yaml:"refresh_interval" env:"BOTDECK_REFRESH_INTERVAL" validate:"gte=1s"`
	AutoRefresh     bool          `yaml:"auto_refresh" env:"BOTDECK_AUTO_REFRESH"`
}

// BotConfig describes the job trigger endpoint.
type BotConfig struct {
	URL     string        `yaml:"url" env:"BOTDECK_BOT_URL" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" env:"BOTDECK_BOT_TIMEOUT" validate:"gte=0"`
}

// ScheduleConfig holds the initial schedule settings. Cron, when set, takes
// precedence over Value and Unit.
type ScheduleConfig struct {
	Enabled bool   `yaml:"enabled" env:"BOTDECK_SCHEDULE"`
	Value   string `yaml:"value" env:"BOTDECK_SCHEDULE_VALUE"`
	Unit    string `yaml:"unit" env:"BOTDECK_SCHEDULE_UNIT" validate:"oneof=seconds minutes hours"`
	Cron    string `yaml:"cron" env:"BOTDECK_SCHEDULE_CRON"`
}

// ServerConfig holds web surface settings.
type ServerConfig struct {
	Address string `yaml:"address" env:"BOTDECK_LISTEN" validate:"required"`
	Metrics bool   `yaml:"metrics" env:"BOTDECK_METRICS"`
}

// LogConfig controls botdeck's own diagnostics.
type LogConfig struct {
	Level  string `yaml:"level" env:"BOTDECK_LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" env:"BOTDECK_LOG_FORMAT" validate:"oneof=auto json text"`
	File   string `yaml:"file" env:"BOTDECK_LOG_FILE"`
}

// OutputConfig holds update sink settings.
type OutputConfig struct {
	Verbosity      string `yaml:"verbosity" env:"BOTDECK_VERBOSITY" validate:"oneof=minimal standard full"`
	Pretty         bool   `yaml:"pretty" env:"BOTDECK_OUTPUT_PRETTY"`
	JournalFile    string `yaml:"journal_file" env:"BOTDECK_JOURNAL_FILE"`
	JournalMaxSize int64  `yaml:"journal_max_size" env:"BOTDECK_JOURNAL_MAX_SIZE" validate:"gte=0"`
	WebhookURL     string `yaml:"webhook_url" env:"BOTDECK_WEBHOOK_URL" validate:"omitempty,url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mode:            "web",
		Title:           "botdeck",
		ShutdownTimeout: 10 * time.Second,
		Source: SourceConfig{
			Provider:        "http",
			Timeout:         30 * time.Second,
			RefreshInterval: 5 * time.Second,
		},
		Bot: BotConfig{
			Timeout: 30 * time.Second,
		},
		Schedule: ScheduleConfig{
			Value: "5",
			Unit:  "minutes",
		},
		Server: ServerConfig{
			Address: ":8080",
			Metrics: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Output: OutputConfig{
			Verbosity:      "standard",
			JournalMaxSize: 10 << 20,
		},
	}
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// LoadFile reads a YAML file over the defaults, then applies environment
// variables on top. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding ones already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables on top of the current values.
func (c *Config) applyEnv() {
	c.Mode = getenv("BOTDECK_MODE", c.Mode)
	c.Title = getenv("BOTDECK_TITLE", c.Title)
	c.ShutdownTimeout = getenvDuration("BOTDECK_SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.Source.Provider = getenv("BOTDECK_SOURCE", c.Source.Provider)
	c.Source.URL = getenv("BOTDECK_LOG_URL", c.Source.URL)
	c.Source.Timeout = getenvDuration("BOTDECK_TIMEOUT", c.Source.Timeout)
	c.Source.RefreshInterval = getenvDuration("BOTDECK_REFRESH_INTERVAL", c.Source.RefreshInterval)
	c.Source.AutoRefresh = getenvBool("BOTDECK_AUTO_REFRESH", c.Source.AutoRefresh)

	c.Bot.URL = getenv("BOTDECK_BOT_URL", c.Bot.URL)
	c.Bot.Timeout = getenvDuration("BOTDECK_BOT_TIMEOUT", c.Bot.Timeout)

	c.Schedule.Enabled = getenvBool("BOTDECK_SCHEDULE", c.Schedule.Enabled)
	c.Schedule.Value = getenv("BOTDECK_SCHEDULE_VALUE", c.Schedule.Value)
	c.Schedule.Unit = strings.ToLower(getenv("BOTDECK_SCHEDULE_UNIT", c.Schedule.Unit))
	c.Schedule.Cron = getenv("BOTDECK_SCHEDULE_CRON", c.Schedule.Cron)

	c.Server.Address = getenv("BOTDECK_LISTEN", c.Server.Address)
	c.Server.Metrics = getenvBool("BOTDECK_METRICS", c.Server.Metrics)

	c.Log.Level = strings.ToLower(getenv("BOTDECK_LOG_LEVEL", c.Log.Level))
	c.Log.Format = strings.ToLower(getenv("BOTDECK_LOG_FORMAT", c.Log.Format))
	c.Log.File = getenv("BOTDECK_LOG_FILE", c.Log.File)

	c.Output.Verbosity = strings.ToLower(getenv("BOTDECK_VERBOSITY", c.Output.Verbosity))
	c.Output.Pretty = getenvBool("BOTDECK_OUTPUT_PRETTY", c.Output.Pretty)
	c.Output.JournalFile = getenv("BOTDECK_JOURNAL_FILE", c.Output.JournalFile)
	c.Output.JournalMaxSize = getenvInt64("BOTDECK_JOURNAL_MAX_SIZE", c.Output.JournalMaxSize)
	c.Output.WebhookURL = getenv("BOTDECK_WEBHOOK_URL", c.Output.WebhookURL)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by the variable that sets them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Validate checks the configuration and returns all problems at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var errs []error
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: %s", fe.Field(), describe(fe)))
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be set"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("must be a URL, got %q", fe.Value())
	case "gt", "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
