// Package ui provides the Bubble Tea TUI for Scout.
package ui

import "github.com/nhoward/scout/internal/reactor"

// QueryDebounceFired is sent when the primary typing gate's delay elapses.
// Rev identifies which pending value settled; stale revisions are ignored.
type QueryDebounceFired struct {
	Rev uint64
}

// OptionsDebounceFired is sent when the advanced-options gate settles.
type OptionsDebounceFired struct {
	Rev uint64
}

// StateChanged wraps a reactor event for the update loop.
type StateChanged struct {
	Event reactor.Event
}

// LocationChanged is sent when the reactor writes a new share link.
type LocationChanged struct {
	QueryString string
}
