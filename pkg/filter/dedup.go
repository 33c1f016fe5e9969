package filter

import "github.com/logsentinel/logsentinel/pkg/model"

// DedupFilter drops entries equal to an earlier one. Equality follows
// model.Entry.Equal, so duplicates that differ only in raw text, IDs or
// metadata are dropped too. The first occurrence is kept.
type DedupFilter struct{}

// NewDedupFilter creates a deduplicating filter.
func NewDedupFilter() *DedupFilter {
	return &DedupFilter{}
}

// Apply returns entries with duplicates removed.
func (f *DedupFilter) Apply(entries []model.Entry) []model.Entry {
	seen := make(map[model.EntryKey]struct{}, len(entries))
	return selectEntries(entries, func(e model.Entry) bool {
		key := e.Key()
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})
}
