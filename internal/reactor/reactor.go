// Package reactor owns the canonical search state and composes the
// debounce gate, remote client, result cache, refinement engine and link
// codec into one consistent contract for presentation code.
//
// All shared state lives behind the reactor's mutex. Other components see
// copies or read-only views and never mutate reactor state directly; async
// search completions re-enter through a single sequence-checked path, so a
// superseded response can never corrupt state no matter when it lands.
package reactor

import (
	"context"
	"sync"

	"github.com/nhoward/scout/internal/cache"
	"github.com/nhoward/scout/internal/candidate"
	"github.com/nhoward/scout/internal/facets"
	"github.com/nhoward/scout/internal/linkstate"
	"github.com/nhoward/scout/internal/logging"
	"github.com/nhoward/scout/internal/query"
	"github.com/nhoward/scout/internal/refine"
	"github.com/nhoward/scout/internal/searchclient"
)

// DefaultMinQueryLength gates remote dispatch; shorter trimmed queries
// clear state instead of searching.
const DefaultMinQueryLength = 3

// eventBuffer sizes subscriber channels. A subscriber that falls this far
// behind starts losing events rather than blocking the reactor.
const eventBuffer = 16

// Searcher is the remote transport dependency.
type Searcher interface {
	Search(ctx context.Context, q query.Query) (*searchclient.Response, error)
}

// Recorder persists successful searches for the history view. Optional.
type Recorder interface {
	Record(q query.Query, resultCount, totalCount int) error
}

// Config wires a Reactor. Client is required; everything else is optional.
type Config struct {
	Client         Searcher
	MinQueryLength int
	ChipLimit      int
	History        Recorder
	// PushLocation receives the encoded query string whenever a search is
	// dispatched with updateURL=true. The collaborator replaces the current
	// navigation entry with it.
	PushLocation func(queryString string)
}

// State is a read-only snapshot for presentation code. Results holds the
// displayed (refined) set; Raw counts refer to the unfiltered set.
type State struct {
	Loading        bool
	Err            string
	Results        []candidate.Candidate
	RawCount       int
	DisplayedCount int
	TotalCount     int
	AverageScore   float64
	CacheAvailable bool
	Query          query.Query
	Filters        refine.Filters
}

// Reactor is the root state owner. Safe for concurrent use.
type Reactor struct {
	mu sync.Mutex

	client       Searcher
	minLen       int
	chipLimit    int
	history      Recorder
	pushLocation func(string)

	seq       uint64 // id of the last issued request; completions with older ids drop
	loading   bool
	errMsg    string
	items     []candidate.Candidate // raw unfiltered set, exactly as returned
	displayed []candidate.Candidate
	facetSum  candidate.FacetSummary
	total     int
	active    query.Query
	filters   refine.Filters
	cache     *cache.Cache

	subs    []chan Event
	dropped uint64 // superseded responses discarded (for testing)
}

// New constructs a Reactor from cfg.
func New(cfg Config) *Reactor {
	minLen := cfg.MinQueryLength
	if minLen <= 0 {
		minLen = DefaultMinQueryLength
	}
	chipLimit := cfg.ChipLimit
	if chipLimit <= 0 {
		chipLimit = facets.DefaultChipLimit
	}
	return &Reactor{
		client:       cfg.Client,
		minLen:       minLen,
		chipLimit:    chipLimit,
		history:      cfg.History,
		pushLocation: cfg.PushLocation,
		active:       query.Default(),
		cache:        cache.New(),
	}
}

// Subscribe returns a channel of reactor events. Buffered; events are
// dropped for subscribers that do not keep up.
func (r *Reactor) Subscribe() <-chan Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan Event, eventBuffer)
	r.subs = append(r.subs, ch)
	return ch
}

// Search dispatches a remote search for q. Below the minimum trimmed
// length it synchronously clears all search state instead (not an error).
// updateURL=false is used only when restoring state that originated from a
// link, breaking the search -> URL -> search feedback loop.
func (r *Reactor) Search(ctx context.Context, q query.Query, updateURL bool) {
	r.mu.Lock()

	trimmed := q.TrimmedText()
	if len([]rune(trimmed)) < r.minLen {
		r.clearLocked()
		r.mu.Unlock()
		return
	}

	r.seq++
	id := r.seq
	r.loading = true
	r.errMsg = ""
	r.active = q.Clone()
	// A fresh dispatch invalidates the previous snapshot so a failure can
	// never restore results that no longer match the issued query.
	r.cache.Invalidate()
	push := r.pushLocation
	r.notifyLocked(Event{Type: EventSearchStarted, Seq: id})
	r.mu.Unlock()

	if updateURL && push != nil {
		push(linkstate.EncodeString(q))
	}

	logging.Debug("search dispatched", "seq", id, "query", trimmed)

	go func() {
		resp, err := r.client.Search(ctx, q)
		r.complete(id, resp, err)
	}()
}

// RestoreFromLink decodes an externally supplied query string and runs the
// search it describes without writing the URL back.
func (r *Reactor) RestoreFromLink(ctx context.Context, rawQuery string) error {
	q, err := linkstate.DecodeString(rawQuery)
	if err != nil {
		return err
	}
	r.Search(ctx, q, false)
	return nil
}

// complete is the single re-entry point for async search results.
func (r *Reactor) complete(id uint64, resp *searchclient.Response, err error) {
	r.mu.Lock()

	if id != r.seq {
		// Superseded: a newer request was issued while this one was in
		// flight. Never surfaced to the user.
		r.dropped++
		r.mu.Unlock()
		logging.Debug("search response dropped", "seq", id, "latest", r.seq)
		return
	}

	r.loading = false
	if err != nil {
		// Results and counts are forced empty so an error is never shown
		// beside stale data.
		r.errMsg = searchclient.Classify(err)
		r.items = nil
		r.displayed = nil
		r.facetSum = nil
		r.total = 0
		r.filters = refine.Filters{}
		msg := r.errMsg
		r.notifyLocked(Event{Type: EventSearchError, Seq: id, Err: msg})
		r.mu.Unlock()
		logging.Warn("search failed", "seq", id, "err", msg)
		return
	}

	r.errMsg = ""
	r.items = resp.Results
	r.total = resp.TotalCount
	if resp.Facets != nil {
		r.facetSum = resp.Facets
	} else {
		r.facetSum = facets.Summarize(resp.Results)
	}
	r.filters = refine.Filters{}
	r.displayed = refine.Apply(r.items, r.filters)
	r.cache.Capture(r.items, r.facetSum, r.total, r.active, r.filters)

	history, q, n, total := r.history, r.active.Clone(), len(resp.Results), resp.TotalCount
	r.notifyLocked(Event{Type: EventResults, Seq: id})
	r.mu.Unlock()

	logging.Info("search completed", "seq", id, "results", n, "total", total)
	if history != nil {
		if err := history.Record(q, n, total); err != nil {
			logging.Warn("history record failed", "err", err)
		}
	}
}

// Clear resets all search state and invalidates the cache. Any in-flight
// response is superseded.
func (r *Reactor) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Reactor) clearLocked() {
	r.seq++ // supersede anything in flight
	r.loading = false
	r.errMsg = ""
	r.items = nil
	r.displayed = nil
	r.facetSum = nil
	r.total = 0
	r.filters = refine.Filters{}
	r.cache.Invalidate()
	r.notifyLocked(Event{Type: EventCleared})
}

// RestoreFromCache copies the cached snapshot back into live state.
// Returns false when nothing is cached. Used when returning from a detail
// view without issuing a new search.
func (r *Reactor) RestoreFromCache() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.cache.Restore()
	if !ok {
		return false
	}
	r.loading = false
	r.errMsg = ""
	r.items = entry.Items
	r.facetSum = entry.Facets
	r.total = entry.TotalCount
	r.active = entry.Query
	r.filters = entry.Filters
	r.displayed = refine.Apply(r.items, r.filters)
	r.notifyLocked(Event{Type: EventRestored})
	return true
}

// SetFreeText updates the refinement free-text predicate and recomputes
// the displayed set from the unfiltered base. No I/O.
func (r *Reactor) SetFreeText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters.FreeText = text
	r.refineLocked()
}

// ToggleFacet toggles value on the category's refinement axis
// (idempotent add/remove) and recomputes the displayed set.
func (r *Reactor) ToggleFacet(category, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch category {
	case facets.CategoryTechnologies:
		r.filters.Technologies = refine.Toggle(r.filters.Technologies, value)
	case facets.CategorySkills:
		r.filters.Skills = refine.Toggle(r.filters.Skills, value)
	case facets.CategoryCertifications:
		r.filters.Certifications = refine.Toggle(r.filters.Certifications, value)
	default:
		return
	}
	r.refineLocked()
}

// ClearRefinement drops every refinement predicate, restoring the full
// unfiltered view exactly as last returned.
func (r *Reactor) ClearRefinement() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters = refine.Filters{}
	r.refineLocked()
}

// refineLocked recomputes displayed from the unfiltered base set. Filters
// are never applied incrementally.
func (r *Reactor) refineLocked() {
	r.displayed = refine.Apply(r.items, r.filters)
	r.notifyLocked(Event{Type: EventRefined})
}

// Snapshot returns a copy of the current presentation state.
func (r *Reactor) Snapshot() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return State{
		Loading:        r.loading,
		Err:            r.errMsg,
		Results:        candidate.CloneAll(r.displayed),
		RawCount:       len(r.items),
		DisplayedCount: len(r.displayed),
		TotalCount:     r.total,
		AverageScore:   candidate.AverageScore(r.displayed),
		CacheAvailable: r.cache.Available(),
		Query:          r.active.Clone(),
		Filters:        r.filters.Clone(),
	}
}

// Chips derives the chip strip for a category from the unfiltered set,
// marking values active on the current refinement axis.
func (r *Reactor) Chips(category string) []facets.Chip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return facets.Chips(r.items, category, r.axisLocked(category), r.chipLimit)
}

// FacetSummary returns the facet counts for the active query.
func (r *Reactor) FacetSummary() candidate.FacetSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.facetSum.Clone()
}

func (r *Reactor) axisLocked(category string) []string {
	switch category {
	case facets.CategoryTechnologies:
		return r.filters.Technologies
	case facets.CategorySkills:
		return r.filters.Skills
	case facets.CategoryCertifications:
		return r.filters.Certifications
	default:
		return nil
	}
}

// notifyLocked fans the event out without blocking; lagging subscribers
// lose events.
func (r *Reactor) notifyLocked(ev Event) {
	for _, ch := range r.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// DroppedResponses returns how many superseded responses were discarded
// (for testing).
func (r *Reactor) DroppedResponses() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}
