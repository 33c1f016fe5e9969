package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/logsentinel/logsentinel/pkg/model"
)

// TimestampLayout is how timestamps are shown in the table.
const TimestampLayout = "2006-01-02T15:04:05Z"

// TableFormatter renders entries as a terminal table, one row per entry,
// colored by level.
type TableFormatter struct {
	opts FormatOptions
}

// NewTableFormatter creates a new table formatter with the given options.
func NewTableFormatter(opts FormatOptions) *TableFormatter {
	return &TableFormatter{opts: opts}
}

// Name returns the format name.
func (f *TableFormatter) Name() string {
	return FormatTable
}

// Format renders the report as a table.
func (f *TableFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TableFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "LogSentinel: %d of %d entries shown, %d errors\n",
		report.Summary.Displayed,
		report.Summary.Parsed,
		report.Summary.Errors)
	return err
}

func (f *TableFormatter) formatFull(report *Report, w io.Writer) error {
	r := lipgloss.NewRenderer(w)

	if _, err := fmt.Fprintln(w, renderTable(r, report.Entries)); err != nil {
		return err
	}

	if f.opts.Verbose {
		return f.formatSummary(report, w)
	}
	return nil
}

func renderTable(r *lipgloss.Renderer, entries []model.Entry) string {
	header := r.NewStyle().Bold(true).Padding(0, 1)
	base := r.NewStyle().Padding(0, 1)

	rowStyles := make([]lipgloss.Style, len(entries))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Faint(true)).
		Headers("Timestamp", "Level", "Source", "Message")

	for i, e := range entries {
		rowStyles[i] = terminalStyle(r, LevelStyle(e.Level())).Padding(0, 1)
		t.Row(
			e.Timestamp().Format(TimestampLayout),
			e.Level().String(),
			e.Source(),
			Truncate(e.Message()),
		)
	}

	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return header
		case row >= 0 && row < len(rowStyles):
			return rowStyles[row]
		default:
			return base
		}
	})

	return t.Render()
}

func (f *TableFormatter) formatSummary(report *Report, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "Summary: %d parsed, %d displayed, %d errors\n",
		report.Summary.Parsed,
		report.Summary.Displayed,
		report.Summary.Errors)

	if len(report.Summary.ByLevel) > 0 {
		names := make([]string, 0, len(report.Summary.ByLevel))
		for name := range report.Summary.ByLevel {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			return levelRank(names[i]) < levelRank(names[j])
		})

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%d", name, report.Summary.ByLevel[name]))
		}
		fmt.Fprintf(&sb, "By level: %s\n", strings.Join(parts, " "))
	}

	if report.Metadata.Source != "" {
		fmt.Fprintf(&sb, "Source: %s\n", report.Metadata.Source)
	}
	fmt.Fprintf(&sb, "Duration: %s\n", report.Metadata.Duration.Round(time.Millisecond))

	_, err := io.WriteString(w, sb.String())
	return err
}

func levelRank(name string) int {
	if l, ok := model.LevelFromName(name); ok {
		return int(l)
	}
	return int(model.LevelUnknown) + 1
}
