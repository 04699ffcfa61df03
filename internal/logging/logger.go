// Package logging holds the process-wide zerolog logger used by steamrec.
//
// Logs always go to stderr so that stdout stays reserved for command output:
//
//	logging.Init(logging.Config{Level: "info", Format: "console"})
//	logging.Ctx(ctx).Info().Int("batch", 1).Msg("batch completed")
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

type Config struct {
	// Level is one of trace, debug, info, warn, error. Default: info.
	Level string
	// Format is console or json. Default: console.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatConsole,
		Output: os.Stderr,
	}
}

var (
	log     zerolog.Logger
	current Config
	mu      sync.RWMutex
)

//nolint:gochecknoinits // logging works before Init is called
func init() {
	current = DefaultConfig()
	log = build(current)
}

// Init replaces the global logger.
func Init(cfg Config) error {
	if _, err := parseLevel(cfg.Level); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	current = cfg
	log = build(cfg)
	return nil
}

// Redirect sends log lines to w, keeping level and format, until restore is
// called. Each event reaches w as a single Write.
func Redirect(w io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()

	previous := current
	redirected := current
	redirected.Output = w
	log = build(redirected)

	return func() {
		mu.Lock()
		defer mu.Unlock()
		log = build(previous)
	}
}

func build(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, FormatJSON) {
		return zerolog.New(output).Level(level).With().Timestamp().Logger()
	}

	writer := zerolog.ConsoleWriter{Out: output, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func parseLevel(raw string) (zerolog.Level, error) {
	if strings.TrimSpace(raw) == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level %q: %w", raw, err)
	}
	return level, nil
}

func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug() *zerolog.Event {
	l := Logger()
	return l.Debug()
}

func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

func Error() *zerolog.Event {
	l := Logger()
	return l.Error()
}
