package reactor

// EventType categorizes reactor events.
type EventType string

const (
	// EventSearchStarted fires when a request is dispatched.
	EventSearchStarted EventType = "search_started"
	// EventResults fires when a search completes and replaces live state.
	EventResults EventType = "results"
	// EventSearchError fires when a search fails; live state is emptied.
	EventSearchError EventType = "search_error"
	// EventRefined fires when the displayed set changes without I/O.
	EventRefined EventType = "refined"
	// EventCleared fires when search state resets to empty.
	EventCleared EventType = "cleared"
	// EventRestored fires when the cache repopulates live state.
	EventRestored EventType = "restored"
)

// Event is sent to subscribers whenever canonical state changes. Seq
// identifies the originating request for search events; zero otherwise.
type Event struct {
	Type EventType
	Seq  uint64
	Err  string // classified message, only for EventSearchError
}
