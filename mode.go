package bootbanner

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects where the banner goes.
type Mode int

const (
	// ModeConsole writes the banner to the console output. It is the default.
	ModeConsole Mode = iota
	// ModeOff disables the banner.
	ModeOff
	// ModeLog writes the banner as one informational log entry.
	ModeLog
)

func (m Mode) String() string {
	switch m {
	case ModeConsole:
		return "console"
	case ModeOff:
		return "off"
	case ModeLog:
		return "log"
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return m == ModeConsole || m == ModeOff || m == ModeLog
}

// ParseMode parses off, console or log, ignoring case and surrounding space.
// An empty string is ModeConsole.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return ModeConsole, nil
	case "off":
		return ModeOff, nil
	case "log":
		return ModeLog, nil
	}
	return ModeConsole, &InvalidModeError{Value: s}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, &InvalidModeError{Value: m.String()}
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// InvalidModeError reports an unrecognised banner mode.
type InvalidModeError struct {
	Value string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("bootbanner: invalid banner mode %q (want off, console or log)", e.Value)
}

// SinkWriteError reports that the console or log channel rejected the banner.
type SinkWriteError struct {
	Mode Mode
	Err  error
}

func (e *SinkWriteError) Error() string {
	return fmt.Sprintf("bootbanner: failed to write banner to %s: %v", e.Mode, e.Err)
}

func (e *SinkWriteError) Unwrap() error { return e.Err }
