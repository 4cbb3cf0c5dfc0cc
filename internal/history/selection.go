package history

import (
	"sort"

	"cotizador/internal/pricing"
	"cotizador/internal/quote"
)

// Selection is the set of record IDs a user has highlighted.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...string) Selection {
	sel := Selection{}
	for _, id := range ids {
		sel.Add(id)
	}
	return sel
}

// Add selects id. Empty ids are ignored.
func (s *Selection) Add(id string) {
	if id == "" {
		return
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Toggle flips the selection state of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		delete(s.ids, id)
		return false
	}
	s.Add(id)
	return s.Has(id)
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len is the number of selected IDs.
func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected IDs sorted.
func (s Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Filter narrows a listing. Zero fields match anything.
type Filter struct {
	Property pricing.PropertyType
	Location pricing.Location
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.Property == 0 && f.Location == 0
}

// Match reports whether rec satisfies the filter.
func (f Filter) Match(rec quote.Record) bool {
	if f.Property != 0 && rec.PropertyType != f.Property {
		return false
	}
	if f.Location != 0 && rec.Location != f.Location {
		return false
	}
	return true
}
