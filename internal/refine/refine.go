// Package refine evaluates client-side refinement filters against the
// already-fetched result set. All functions are pure: []Candidate in,
// []Candidate out, no I/O. Clearing the filters restores the unfiltered
// view exactly as the backend returned it.
package refine

import (
	"strings"

	"github.com/nhoward/scout/internal/candidate"
)

// Filters is the in-memory refinement predicate set. It narrows results
// that are already loaded; it never triggers a network round trip.
type Filters struct {
	FreeText       string
	Technologies   []string
	Skills         []string
	Certifications []string
}

// IsZero reports whether no predicate is active.
func (f Filters) IsZero() bool {
	return strings.TrimSpace(f.FreeText) == "" &&
		len(f.Technologies) == 0 &&
		len(f.Skills) == 0 &&
		len(f.Certifications) == 0
}

// Clone returns a deep copy.
func (f Filters) Clone() Filters {
	f.Technologies = cloneSet(f.Technologies)
	f.Skills = cloneSet(f.Skills)
	f.Certifications = cloneSet(f.Certifications)
	return f
}

// Apply runs every active predicate against items, combined conjunctively
// across axes. Empty filters are the identity: the full set comes back in
// a fresh slice. Always evaluates against the slice it is given — callers
// pass the unfiltered base set, never a previously filtered one, so
// toggling a chip can only widen or narrow from the same baseline.
func Apply(items []candidate.Candidate, f Filters) []candidate.Candidate {
	result := make([]candidate.Candidate, 0, len(items))
	if f.IsZero() {
		return append(result, items...)
	}

	needle := strings.ToLower(strings.TrimSpace(f.FreeText))
	for _, c := range items {
		if needle != "" && !matchesText(c, needle) {
			continue
		}
		if !containsAll(c.Technologies, f.Technologies) {
			continue
		}
		if !containsAll(c.Skills, f.Skills) {
			continue
		}
		if !containsAll(c.Certifications, f.Certifications) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// Toggle adds value to the axis if absent, removes it if present
// (case-insensitive). Returns a new slice either way.
func Toggle(axis []string, value string) []string {
	for i, v := range axis {
		if strings.EqualFold(v, value) {
			out := make([]string, 0, len(axis)-1)
			out = append(out, axis[:i]...)
			return append(out, axis[i+1:]...)
		}
	}
	out := make([]string, 0, len(axis)+1)
	out = append(out, axis...)
	return append(out, value)
}

// Active reports whether value is selected on the axis, case-insensitively.
func Active(axis []string, value string) bool {
	for _, v := range axis {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

// matchesText checks the free-text needle against the concatenation of every
// searchable field. The needle is already lowercased.
func matchesText(c candidate.Candidate, needle string) bool {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte(' ')
	b.WriteString(c.FullName)
	b.WriteByte(' ')
	b.WriteString(c.Title)
	b.WriteByte(' ')
	b.WriteString(c.Location)
	b.WriteByte(' ')
	b.WriteString(c.Availability)
	for _, group := range [][]string{c.Technologies, c.Skills, c.Certifications} {
		for _, v := range group {
			b.WriteByte(' ')
			b.WriteString(v)
		}
	}
	return strings.Contains(strings.ToLower(b.String()), needle)
}

// containsAll reports whether values holds every selected entry,
// case-insensitively. An empty selection always matches.
func containsAll(values, selected []string) bool {
	for _, want := range selected {
		found := false
		for _, have := range values {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func cloneSet(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
