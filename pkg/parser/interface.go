// Package parser turns log export files into normalized log entries.
package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/logsentinel/logsentinel/pkg/model"
)

// Parser converts one log export into an ordered slice of entries.
// Implementations are stateless and safe for concurrent use.
type Parser interface {
	// Name returns the format name (cloudwatch).
	Name() string

	// ParseString parses an export already held in memory.
	// Returns an error wrapping ErrFormat if the content is malformed.
	ParseString(content string) ([]model.Entry, error)

	// ParseFile reads and parses an export file.
	// Returns an error wrapping ErrNotFound if the path does not exist.
	ParseFile(path string) ([]model.Entry, error)
}

var (
	// ErrNotFound is returned when the input path does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrFormat is returned when the input is not a valid export.
	ErrFormat = errors.New("invalid log export")

	// ErrUnknownFormat is returned by New for unregistered format names.
	ErrUnknownFormat = errors.New("unknown format")
)

// FormatCloudWatch is the CloudWatch Logs JSON export format.
const FormatCloudWatch = "cloudwatch"

var registry = map[string]func() Parser{
	FormatCloudWatch: func() Parser { return NewCloudWatchParser() },
}

// New returns the parser registered under format.
func New(format string) (Parser, error) {
	factory, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownFormat, format, Formats())
	}
	return factory(), nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
