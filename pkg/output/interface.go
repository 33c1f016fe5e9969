package output

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Formatter renders a report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (table, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose appends summary statistics after the entries.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}

// Output format names.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ErrUnknownOutput is returned by NewFormatter for unsupported format names.
var ErrUnknownOutput = errors.New("unknown output format")

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case FormatTable:
		return NewTableFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("%w %q (use %s or %s)", ErrUnknownOutput, name, FormatTable, FormatJSON)
	}
}
