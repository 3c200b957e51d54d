package query

import (
	"reflect"
	"testing"
)

func TestCloneIndependence(t *testing.T) {
	q := New("backend")
	q.Facets.Technologies = []string{"Go"}

	c := q.Clone()
	c.Facets.Technologies[0] = "Rust"

	if q.Facets.Technologies[0] != "Go" {
		t.Error("Clone shares facet slice memory with the original")
	}
}

func TestEqual(t *testing.T) {
	base := Query{
		Text:     "backend",
		TopK:     20,
		MinScore: 0.5,
		Facets:   FacetFilters{Technologies: []string{"Go", "Postgres"}},
	}

	if !base.Equal(base.Clone()) {
		t.Error("query does not equal its own clone")
	}

	variants := []Query{
		{Text: "frontend", TopK: 20, MinScore: 0.5, Facets: base.Facets},
		{Text: "backend", TopK: 10, MinScore: 0.5, Facets: base.Facets},
		{Text: "backend", TopK: 20, MinScore: 0.6, Facets: base.Facets},
		{Text: "backend", TopK: 20, MinScore: 0.5, Facets: FacetFilters{Technologies: []string{"Go"}}},
		{Text: "backend", TopK: 20, MinScore: 0.5, Facets: FacetFilters{Technologies: []string{"Postgres", "Go"}}},
		{Text: "backend", TopK: 20, MinScore: 0.5, Facets: FacetFilters{Technologies: base.Facets.Technologies, MinYears: 2}},
	}
	for i, v := range variants {
		if base.Equal(v) {
			t.Errorf("variant %d compared equal to base: %+v", i, v)
		}
	}
}

func TestAddValueDedupes(t *testing.T) {
	axis := AddValue(nil, "React")
	axis = AddValue(axis, "react")
	axis = AddValue(axis, "Node")

	if want := []string{"React", "Node"}; !reflect.DeepEqual(axis, want) {
		t.Errorf("axis = %v, want %v", axis, want)
	}
}

func TestTrimmedText(t *testing.T) {
	if got := New("  kotlin  ").TrimmedText(); got != "kotlin" {
		t.Errorf("TrimmedText = %q, want %q", got, "kotlin")
	}
}
