// Package query defines the immutable search parameter values exchanged
// between the debounce gate, the remote client, the cache and the reactor.
package query

import "strings"

// Default request parameters. A field holding its default is omitted from
// share links and from outbound request URLs.
const (
	DefaultTopK     = 10
	DefaultMinScore = 0.0
)

// FacetFilters narrows a search along backend facet axes.
// Location and Availability hold at most one value; the slice axes hold
// distinct values only.
type FacetFilters struct {
	Location       string
	Availability   string
	Technologies   []string
	Skills         []string
	Certifications []string
	MinYears       int // 0 means unset
}

// Query is the full parameter set for one remote search.
type Query struct {
	Text     string
	TopK     int
	MinScore float64
	Facets   FacetFilters
}

// Default returns a Query with reference parameters and no facet filters.
func Default() Query {
	return Query{TopK: DefaultTopK, MinScore: DefaultMinScore}
}

// New builds a Query for the given text with default parameters.
func New(text string) Query {
	q := Default()
	q.Text = text
	return q
}

// Clone returns a deep copy. Queries are passed by value, but the facet
// slices would otherwise alias the originals.
func (q Query) Clone() Query {
	q.Facets = q.Facets.Clone()
	return q
}

// Clone returns a deep copy of the filter set.
func (f FacetFilters) Clone() FacetFilters {
	f.Technologies = cloneValues(f.Technologies)
	f.Skills = cloneValues(f.Skills)
	f.Certifications = cloneValues(f.Certifications)
	return f
}

// IsZero reports whether no facet axis is active.
func (f FacetFilters) IsZero() bool {
	return f.Location == "" && f.Availability == "" &&
		len(f.Technologies) == 0 && len(f.Skills) == 0 &&
		len(f.Certifications) == 0 && f.MinYears == 0
}

// Equal compares two queries field by field, including facet slices in order.
func (q Query) Equal(other Query) bool {
	if q.Text != other.Text || q.TopK != other.TopK || q.MinScore != other.MinScore {
		return false
	}
	return q.Facets.Equal(other.Facets)
}

// Equal compares two filter sets. Slice order matters: the reactor never
// reorders axes, so positional comparison is sufficient for change detection.
func (f FacetFilters) Equal(other FacetFilters) bool {
	if f.Location != other.Location || f.Availability != other.Availability || f.MinYears != other.MinYears {
		return false
	}
	return equalValues(f.Technologies, other.Technologies) &&
		equalValues(f.Skills, other.Skills) &&
		equalValues(f.Certifications, other.Certifications)
}

// TrimmedText returns the query text with surrounding whitespace removed.
func (q Query) TrimmedText() string {
	return strings.TrimSpace(q.Text)
}

// AddValue appends value to axis unless an equal value (case-insensitive)
// is already present. Returns the resulting slice.
func AddValue(axis []string, value string) []string {
	for _, v := range axis {
		if strings.EqualFold(v, value) {
			return axis
		}
	}
	return append(cloneValues(axis), value)
}

func cloneValues(vals []string) []string {
	if vals == nil {
		return nil
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

func equalValues(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
