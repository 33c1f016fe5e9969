// Package filter provides composable predicates over parsed log entries.
//
// Every filter is pure: it never modifies its input and the entries it
// returns keep their relative order.
package filter

import "github.com/logsentinel/logsentinel/pkg/model"

// Filter selects a subsequence of entries.
type Filter interface {
	Apply(entries []model.Entry) []model.Entry
}

// Func adapts an ordinary function to the Filter interface.
type Func func(entries []model.Entry) []model.Entry

// Apply calls f(entries).
func (f Func) Apply(entries []model.Entry) []model.Entry {
	return f(entries)
}

// Apply runs entries through each filter in turn. Nil filters are skipped.
func Apply(entries []model.Entry, filters ...Filter) []model.Entry {
	for _, f := range filters {
		if f == nil {
			continue
		}
		entries = f.Apply(entries)
	}
	return entries
}

// Chain combines filters into one that applies them in order.
func Chain(filters ...Filter) Filter {
	return Func(func(entries []model.Entry) []model.Entry {
		return Apply(entries, filters...)
	})
}

// Where keeps the entries for which keep returns true.
func Where(keep func(model.Entry) bool) Filter {
	return Func(func(entries []model.Entry) []model.Entry {
		return selectEntries(entries, keep)
	})
}

// ErrorsOnly keeps ERROR and CRITICAL entries.
func ErrorsOnly() Filter {
	return Where(model.Entry.IsError)
}

func selectEntries(entries []model.Entry, keep func(model.Entry) bool) []model.Entry {
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
