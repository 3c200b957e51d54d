// Package cache snapshots the last successful search so a return from a
// detail view can repopulate the result list without a network round trip.
package cache

import (
	"time"

	"github.com/nhoward/scout/internal/candidate"
	"github.com/nhoward/scout/internal/query"
	"github.com/nhoward/scout/internal/refine"
)

// Entry is one complete snapshot: results, facet summary, total count, the
// query that produced them and the refinement filters active at capture
// time. Entries are replaced wholesale, never patched.
type Entry struct {
	Items      []candidate.Candidate
	Facets     candidate.FacetSummary
	TotalCount int
	Query      query.Query
	Filters    refine.Filters
	CapturedAt time.Time
}

// Cache holds at most one entry, last search wins. There is no expiry:
// staleness is bounded only by the next successful search or an explicit
// invalidation. Not safe for concurrent use; the reactor owns it.
type Cache struct {
	entry *Entry
	now   func() time.Time
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{now: time.Now}
}

// Capture overwrites any prior entry with a deep copy of the given state,
// stamping the capture time.
func (c *Cache) Capture(items []candidate.Candidate, facets candidate.FacetSummary, total int, q query.Query, f refine.Filters) {
	c.entry = &Entry{
		Items:      candidate.CloneAll(items),
		Facets:     facets.Clone(),
		TotalCount: total,
		Query:      q.Clone(),
		Filters:    f.Clone(),
		CapturedAt: c.now(),
	}
}

// Restore returns a deep copy of the cached entry. The second return is
// false when nothing has been captured since the last invalidation.
func (c *Cache) Restore() (Entry, bool) {
	if c.entry == nil {
		return Entry{}, false
	}
	e := Entry{
		Items:      candidate.CloneAll(c.entry.Items),
		Facets:     c.entry.Facets.Clone(),
		TotalCount: c.entry.TotalCount,
		Query:      c.entry.Query.Clone(),
		Filters:    c.entry.Filters.Clone(),
		CapturedAt: c.entry.CapturedAt,
	}
	return e, true
}

// Invalidate drops the entry.
func (c *Cache) Invalidate() {
	c.entry = nil
}

// Available reports whether a snapshot exists.
func (c *Cache) Available() bool {
	return c.entry != nil
}
