// Package facets derives chip candidates from the loaded result set.
package facets

import (
	"sort"
	"strings"

	"github.com/nhoward/scout/internal/candidate"
	"github.com/nhoward/scout/internal/refine"
)

// DefaultChipLimit caps how many chips a category strip shows.
const DefaultChipLimit = 15

// Facet categories with client-derivable chip values.
const (
	CategoryTechnologies   = "technologies"
	CategorySkills         = "skills"
	CategoryCertifications = "certifications"
)

// Categories lists the chip categories in display order.
var Categories = []string{CategoryTechnologies, CategorySkills, CategoryCertifications}

// Chip is one selectable facet value derived from the loaded items.
type Chip struct {
	Value  string
	Count  int
	Active bool
}

// Chips counts the distinct values of the given category across the
// unfiltered item set, orders them by count descending (ties keep
// first-seen order), truncates to limit, and marks each chip active when
// its value is selected in the corresponding refinement axis.
func Chips(items []candidate.Candidate, category string, active []string, limit int) []Chip {
	if limit <= 0 {
		limit = DefaultChipLimit
	}

	counts := countValues(items, category)
	if len(counts) > limit {
		counts = counts[:limit]
	}

	chips := make([]Chip, len(counts))
	for i, fc := range counts {
		chips[i] = Chip{
			Value:  fc.Value,
			Count:  fc.Count,
			Active: refine.Active(active, fc.Value),
		}
	}
	return chips
}

// Summarize re-derives a per-category facet summary from the loaded items.
// Used when the backend response omits its own facet block; the shape and
// ordering match what the backend would have produced.
func Summarize(items []candidate.Candidate) candidate.FacetSummary {
	summary := make(candidate.FacetSummary, len(Categories))
	for _, cat := range Categories {
		summary[cat] = countValues(items, cat)
	}
	return summary
}

// countValues tallies occurrences of each distinct value (first-seen casing
// wins) and returns them sorted by count descending, stable on ties.
func countValues(items []candidate.Candidate, category string) []candidate.FacetCount {
	type entry struct {
		value string
		count int
		seen  int
	}

	index := make(map[string]*entry)
	var order []*entry

	for _, c := range items {
		for _, v := range fieldFor(c, category) {
			key := strings.ToLower(v)
			e, ok := index[key]
			if !ok {
				e = &entry{value: v, seen: len(order)}
				index[key] = e
				order = append(order, e)
			}
			e.count++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].seen < order[j].seen
	})

	counts := make([]candidate.FacetCount, len(order))
	for i, e := range order {
		counts[i] = candidate.FacetCount{Value: e.value, Count: e.count}
	}
	return counts
}

func fieldFor(c candidate.Candidate, category string) []string {
	switch category {
	case CategoryTechnologies:
		return c.Technologies
	case CategorySkills:
		return c.Skills
	case CategoryCertifications:
		return c.Certifications
	default:
		return nil
	}
}
