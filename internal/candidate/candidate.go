// Package candidate defines the wire and display model for search results.
package candidate

// Candidate is a single ranked search result. ID is the stable identity used
// for caching, selection and filter matching.
type Candidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	FullName       string   `json:"fullName,omitempty"`
	Title          string   `json:"title"`
	Location       string   `json:"location"`
	Technologies   []string `json:"technologies,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Availability   string   `json:"availability"`
	MatchScore     float64  `json:"matchScore"`
}

// FacetCount is one facet value with its occurrence count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetSummary maps a facet category to its counts, ordered by count
// descending. Produced by the backend per query; Summarize in the facets
// package re-derives the same shape client-side.
type FacetSummary map[string][]FacetCount

// Clone returns a deep copy of the candidate.
func (c Candidate) Clone() Candidate {
	c.Technologies = cloneStrings(c.Technologies)
	c.Skills = cloneStrings(c.Skills)
	c.Certifications = cloneStrings(c.Certifications)
	return c
}

// CloneAll deep-copies a result slice.
func CloneAll(items []Candidate) []Candidate {
	if items == nil {
		return nil
	}
	out := make([]Candidate, len(items))
	for i, c := range items {
		out[i] = c.Clone()
	}
	return out
}

// Clone deep-copies the summary.
func (fs FacetSummary) Clone() FacetSummary {
	if fs == nil {
		return nil
	}
	out := make(FacetSummary, len(fs))
	for cat, counts := range fs {
		cc := make([]FacetCount, len(counts))
		copy(cc, counts)
		out[cat] = cc
	}
	return out
}

// AverageScore returns the mean match score of items, 0 for an empty set.
func AverageScore(items []Candidate) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range items {
		sum += c.MatchScore
	}
	return sum / float64(len(items))
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
