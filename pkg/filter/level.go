package filter

import "github.com/logsentinel/logsentinel/pkg/model"

// LevelFilter keeps entries at or above a minimum level.
//
// Entries whose level is UNKNOWN always pass, whatever the threshold.
type LevelFilter struct {
	min model.Level
}

// NewLevelFilter creates a filter with the given minimum level.
func NewLevelFilter(threshold model.Level) *LevelFilter {
	return &LevelFilter{min: threshold}
}

// MinLevel returns the threshold.
func (f *LevelFilter) MinLevel() model.Level {
	return f.min
}

// Apply returns the entries that pass the threshold.
func (f *LevelFilter) Apply(entries []model.Entry) []model.Entry {
	return selectEntries(entries, f.keep)
}

func (f *LevelFilter) keep(e model.Entry) bool {
	if e.Level() == model.LevelUnknown {
		return true
	}
	return e.Level() >= f.min
}
