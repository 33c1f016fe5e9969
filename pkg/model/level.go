// Package model defines the normalized log record and its severity levels.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// Level is the severity of a log entry. Values are ordered so that a higher
// number means a more severe entry, with the exception of LevelUnknown.
type Level int

// Known levels. LevelUnknown sorts above LevelCritical numerically but means
// the severity could not be determined.
const (
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
	LevelUnknown  Level = 60
)

// ErrUnknownLevel is returned when a level name does not match any known level.
var ErrUnknownLevel = errors.New("unknown level")

var levelNames = map[Level]string{
	LevelDebug:    "DEBUG",
	LevelInfo:     "INFO",
	LevelWarning:  "WARNING",
	LevelError:    "ERROR",
	LevelCritical: "CRITICAL",
	LevelUnknown:  "UNKNOWN",
}

var levelsByName = map[string]Level{
	"DEBUG":    LevelDebug,
	"INFO":     LevelInfo,
	"WARNING":  LevelWarning,
	"ERROR":    LevelError,
	"CRITICAL": LevelCritical,
	"UNKNOWN":  LevelUnknown,
}

// Levels returns every known level in ascending order.
func Levels() []Level {
	return []Level{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical, LevelUnknown}
}

// String returns the level name.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// LevelFromName looks up a level by its exact, case-sensitive name.
func LevelFromName(name string) (Level, bool) {
	l, ok := levelsByName[name]
	return l, ok
}

// ParseLevel looks up a level by name, ignoring case.
func ParseLevel(name string) (Level, error) {
	if l, ok := levelsByName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownLevel, name)
}

// ParseThreshold parses a minimum-level name for filtering. UNKNOWN is not a
// severity and is rejected.
func ParseThreshold(name string) (Level, error) {
	l, err := ParseLevel(name)
	if err != nil {
		return 0, err
	}
	if l == LevelUnknown {
		return 0, fmt.Errorf("%w %q (must be one of %s)", ErrUnknownLevel, name, strings.Join(ThresholdNames(), ", "))
	}
	return l, nil
}

// ThresholdNames returns the names accepted by ParseThreshold.
func ThresholdNames() []string {
	return []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if _, ok := levelNames[l]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, ok := LevelFromName(string(text))
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownLevel, string(text))
	}
	*l = parsed
	return nil
}
