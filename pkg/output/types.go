// Package output renders parsed log entries for people and machines.
//
// The underlying entries are never modified here; truncation and styling
// only affect what is displayed.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/logsentinel/logsentinel/pkg/model"
)

// Report is the complete result of one parse run.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Entries are the entries left after filtering, in input order.
	Entries []model.Entry `json:"entries"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// Parsed is the number of entries read from the export.
	Parsed int `json:"parsed"`

	// Displayed is the number of entries left after filtering.
	Displayed int `json:"displayed"`

	// Errors is the number of displayed ERROR and CRITICAL entries.
	Errors int `json:"errors"`

	// ByLevel counts displayed entries per level name.
	ByLevel map[string]int `json:"by_level"`
}

// Metadata provides context about the run.
type Metadata struct {
	// RunID identifies this run; webhooks use it as an idempotency key.
	RunID string `json:"run_id"`

	// File is the export that was parsed.
	File string `json:"file,omitempty"`

	// Format is the input format name.
	Format string `json:"format,omitempty"`

	// Source is the source of the parsed entries, such as the log group.
	Source string `json:"source,omitempty"`

	// Filters describes the filters that were applied.
	Filters FilterSummary `json:"filters"`

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`

	// Duration is how long parsing and filtering took.
	Duration time.Duration `json:"duration"`
}

// FilterSummary records the filter settings of a run.
type FilterSummary struct {
	MinLevel      string `json:"min_level,omitempty"`
	Search        string `json:"search,omitempty"`
	CaseSensitive bool   `json:"case_sensitive,omitempty"`
	Dedup         bool   `json:"dedup,omitempty"`
	ErrorsOnly    bool   `json:"errors_only,omitempty"`
}

// NewReport builds a report from the parsed and filtered entries.
// A run ID is generated when meta has none.
func NewReport(parsed, displayed []model.Entry, meta Metadata) *Report {
	if meta.RunID == "" {
		meta.RunID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}
	if meta.Source == "" && len(parsed) > 0 {
		meta.Source = parsed[0].Source()
	}
	if displayed == nil {
		displayed = []model.Entry{}
	}

	return &Report{
		Entries:  displayed,
		Metadata: meta,
		Summary:  Summarize(len(parsed), displayed),
	}
}

// Summarize counts entries per level.
func Summarize(parsed int, displayed []model.Entry) Summary {
	s := Summary{
		Parsed:    parsed,
		Displayed: len(displayed),
		ByLevel:   make(map[string]int),
	}
	for _, e := range displayed {
		s.ByLevel[e.Level().String()]++
		if e.IsError() {
			s.Errors++
		}
	}
	return s
}

// HasErrors returns true if any displayed entry is ERROR or CRITICAL.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}
