package cache

import (
	"reflect"
	"testing"
	"time"

	"github.com/nhoward/scout/internal/candidate"
	"github.com/nhoward/scout/internal/query"
	"github.com/nhoward/scout/internal/refine"
)

func snapshot() ([]candidate.Candidate, candidate.FacetSummary, query.Query, refine.Filters) {
	items := []candidate.Candidate{
		{ID: "c1", Name: "Priya Raman", Technologies: []string{"Go", "Postgres"}, MatchScore: 0.9},
		{ID: "c2", Name: "Jonas Weber", Technologies: []string{"React"}, MatchScore: 0.8},
	}
	facets := candidate.FacetSummary{
		"technologies": {{Value: "Go", Count: 1}, {Value: "Postgres", Count: 1}, {Value: "React", Count: 1}},
	}
	q := query.New("backend berlin")
	f := refine.Filters{Technologies: []string{"Go"}}
	return items, facets, q, f
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	c := New()
	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	c.now = func() time.Time { return stamp }

	items, facets, q, f := snapshot()
	c.Capture(items, facets, 42, q, f)

	got, ok := c.Restore()
	if !ok {
		t.Fatal("Restore reported no entry after Capture")
	}
	if !reflect.DeepEqual(got.Items, items) {
		t.Errorf("restored items = %+v, want %+v", got.Items, items)
	}
	if !reflect.DeepEqual(got.Facets, facets) {
		t.Errorf("restored facets = %+v, want %+v", got.Facets, facets)
	}
	if got.TotalCount != 42 {
		t.Errorf("restored total = %d, want 42", got.TotalCount)
	}
	if !got.Query.Equal(q) {
		t.Errorf("restored query = %+v, want %+v", got.Query, q)
	}
	if !reflect.DeepEqual(got.Filters, f) {
		t.Errorf("restored filters = %+v, want %+v", got.Filters, f)
	}
	if !got.CapturedAt.Equal(stamp) {
		t.Errorf("captured at = %v, want %v", got.CapturedAt, stamp)
	}
}

func TestCaptureIsolatesFromCallerMutation(t *testing.T) {
	c := New()
	items, facets, q, f := snapshot()
	c.Capture(items, facets, 2, q, f)

	// Mutate everything the caller still holds.
	items[0].Name = "mutated"
	items[1].Technologies[0] = "mutated"
	facets["technologies"][0].Count = 99
	f.Technologies[0] = "mutated"

	got, _ := c.Restore()
	if got.Items[0].Name == "mutated" || got.Items[1].Technologies[0] == "mutated" {
		t.Error("cache shares candidate memory with the caller")
	}
	if got.Facets["technologies"][0].Count == 99 {
		t.Error("cache shares facet memory with the caller")
	}
	if got.Filters.Technologies[0] == "mutated" {
		t.Error("cache shares filter memory with the caller")
	}
}

func TestRestoreIsolatesFromReaderMutation(t *testing.T) {
	c := New()
	items, facets, q, f := snapshot()
	c.Capture(items, facets, 2, q, f)

	first, _ := c.Restore()
	first.Items[0].Name = "mutated"
	first.Facets["technologies"] = nil

	second, _ := c.Restore()
	if second.Items[0].Name == "mutated" {
		t.Error("two restores share candidate memory")
	}
	if second.Facets["technologies"] == nil {
		t.Error("two restores share facet memory")
	}
}

func TestLastSearchWins(t *testing.T) {
	c := New()
	items, facets, q, f := snapshot()
	c.Capture(items, facets, 2, q, f)
	c.Capture(items[:1], facets, 1, query.New("platform"), refine.Filters{})

	got, ok := c.Restore()
	if !ok || len(got.Items) != 1 || got.Query.Text != "platform" {
		t.Errorf("restored %d items for query %q, want the later capture", len(got.Items), got.Query.Text)
	}
}

func TestInvalidate(t *testing.T) {
	c := New()
	if c.Available() {
		t.Error("fresh cache reports an entry")
	}
	if _, ok := c.Restore(); ok {
		t.Error("fresh cache restored an entry")
	}

	items, facets, q, f := snapshot()
	c.Capture(items, facets, 2, q, f)
	if !c.Available() {
		t.Fatal("cache empty after Capture")
	}

	c.Invalidate()
	if c.Available() {
		t.Error("cache still reports an entry after Invalidate")
	}
	if _, ok := c.Restore(); ok {
		t.Error("Restore succeeded after Invalidate")
	}
}
