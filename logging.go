package bootbanner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"
)

// LoggingConfig holds log channel settings.
type LoggingConfig struct {
	Level  string `json:"level" default:"info"`    // debug, info, warn, error
	Format string `json:"format" default:"json"`   // json, text
	Output string `json:"output" default:"stderr"` // stdout, stderr, or file path
}

// LoggingConfigFrom reads logging.level, logging.format and logging.output,
// using the struct defaults for anything unset.
func LoggingConfigFrom(env *Environment) (LoggingConfig, error) {
	var cfg LoggingConfig
	if err := defaults.Set(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to apply logging defaults: %w", err)
	}
	cfg.Level = env.Get("logging.level", cfg.Level)
	cfg.Format = env.Get("logging.format", cfg.Format)
	cfg.Output = env.Get("logging.output", cfg.Output)
	return cfg, cfg.Validate()
}

// Validate checks Level and Format.
func (c LoggingConfig) Validate() error {
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "", "json", "text":
	default:
		return fmt.Errorf("bootbanner: invalid logging.format %q (want json or text)", c.Format)
	}
	return nil
}

func parseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.InfoLevel, fmt.Errorf("bootbanner: invalid logging.level %q (want debug, info, warn or error)", s)
}

// LogChannel is a zerolog logger that remembers the first write error of an
// entry, so a banner logged through it can report a broken channel.
type LogChannel struct {
	logger zerolog.Logger
	w      *trackingWriter
	closer io.Closer

	// mu serializes banner entries so their write errors are not mixed up.
	mu sync.Mutex
}

// NewLogChannel builds a log channel writing to w. An invalid level falls
// back to info; call Validate first to reject it.
func NewLogChannel(w io.Writer, cfg LoggingConfig) *LogChannel {
	level, _ := parseLevel(cfg.Level)
	tw := &trackingWriter{w: w}

	var output io.Writer = tw
	if strings.ToLower(cfg.Format) == "text" {
		output = zerolog.ConsoleWriter{Out: tw, NoColor: true}
	}
	return &LogChannel{
		logger: zerolog.New(output).Level(level).With().Timestamp().Logger(),
		w:      tw,
	}
}

// OpenLogChannel resolves cfg.Output to stdout, stderr or an append-only file.
func OpenLogChannel(cfg LoggingConfig) (*LogChannel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Output {
	case "", "stderr":
		return NewLogChannel(os.Stderr, cfg), nil
	case "stdout":
		return NewLogChannel(os.Stdout, cfg), nil
	}
	f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log output %s: %w", cfg.Output, err)
	}
	c := NewLogChannel(f, cfg)
	c.closer = f
	return c, nil
}

// DisabledLogChannel discards everything.
func DisabledLogChannel() *LogChannel {
	c := NewLogChannel(io.Discard, LoggingConfig{})
	c.logger = c.logger.Level(zerolog.Disabled)
	return c
}

// Logger returns the channel's logger.
func (c *LogChannel) Logger() zerolog.Logger {
	return c.logger
}

// Close closes the output file opened by OpenLogChannel, if any.
func (c *LogChannel) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// banner logs text as one informational entry and returns the write error
// if the underlying writer rejected it.
func (c *LogChannel) banner(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.w.reset()
	c.logger.Info().Bool("banner", true).Msg(strings.TrimSuffix(text, "\n"))
	return c.w.failure()
}

type trackingWriter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		t.mu.Lock()
		if t.err == nil {
			t.err = err
		}
		t.mu.Unlock()
	}
	return n, err
}

func (t *trackingWriter) reset() {
	t.mu.Lock()
	t.err = nil
	t.mu.Unlock()
}

func (t *trackingWriter) failure() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
