package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/logsentinel/logsentinel/pkg/model"
)

// SearchFilter keeps entries whose message or any metadata value contains a keyword.
type SearchFilter struct {
	keyword       string
	caseSensitive bool
}

// SearchOption configures a SearchFilter.
type SearchOption func(*SearchFilter)

// CaseSensitive makes the search match case exactly.
func CaseSensitive() SearchOption {
	return func(f *SearchFilter) {
		f.caseSensitive = true
	}
}

// WithCaseSensitive sets case sensitivity from a flag value.
func WithCaseSensitive(enabled bool) SearchOption {
	return func(f *SearchFilter) {
		f.caseSensitive = enabled
	}
}

// NewSearchFilter creates a case-insensitive search for keyword unless
// CaseSensitive is given.
func NewSearchFilter(keyword string, opts ...SearchOption) *SearchFilter {
	f := &SearchFilter{keyword: keyword}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Keyword returns the search term.
func (f *SearchFilter) Keyword() string {
	return f.keyword
}

// IsCaseSensitive reports whether matching is case sensitive.
func (f *SearchFilter) IsCaseSensitive() bool {
	return f.caseSensitive
}

// Apply returns the matching entries. An empty keyword disables the filter
// and the input is returned as is.
func (f *SearchFilter) Apply(entries []model.Entry) []model.Entry {
	if f.keyword == "" {
		return entries
	}

	if f.caseSensitive {
		return selectEntries(entries, func(e model.Entry) bool {
			return matches(e, f.keyword, identity)
		})
	}

	fold := cases.Fold().String
	needle := fold(f.keyword)
	return selectEntries(entries, func(e model.Entry) bool {
		return matches(e, needle, fold)
	})
}

func identity(s string) string { return s }

func matches(e model.Entry, needle string, norm func(string) string) bool {
	if strings.Contains(norm(e.Message()), needle) {
		return true
	}
	found := false
	e.RangeMetadata(func(_, v string) bool {
		found = strings.Contains(norm(v), needle)
		return !found
	})
	return found
}
