package domain

import "fmt"

// NavState is the lifecycle state of a navigation session
type NavState int

const (
	NavUninitialized NavState = iota
	NavReady
	NavEmpty
)

func (s NavState) String() string {
	switch s {
	case NavUninitialized:
		return "uninitialized"
	case NavReady:
		return "ready"
	case NavEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// EventKind identifies a navigation event. The zero value is not a valid event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventNext
	EventPrevious
	EventJumpTo
)

func (k EventKind) String() string {
	switch k {
	case EventNext:
		return "next"
	case EventPrevious:
		return "previous"
	case EventJumpTo:
		return "jump"
	default:
		return "unknown"
	}
}

// Event is a discrete navigation input
type Event struct {
	Kind  EventKind
	Index int // Target for EventJumpTo (1-based)
}

// Next returns a Next event
func Next() Event { return Event{Kind: EventNext} }

// Previous returns a Previous event
func Previous() Event { return Event{Kind: EventPrevious} }

// JumpTo returns a JumpTo event for a 1-based index
func JumpTo(index int) Event { return Event{Kind: EventJumpTo, Index: index} }

func (e Event) String() string {
	if e.Kind == EventJumpTo {
		return fmt.Sprintf("jump(%d)", e.Index)
	}
	return e.Kind.String()
}

// Directive asks a viewer to display one plot
type Directive struct {
	Index  int    // 1-based, always within [1, Total]
	Total  int
	Format string
	Anchor string // e.g. "plot_3"
}

// Outcome is what happened to a single event
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeMoved
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMoved:
		return "moved"
	case OutcomeRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Snapshot is a read-only view of the navigation state
type Snapshot struct {
	State   NavState
	Current int // 0 unless State == NavReady
	Total   int
	Format  string
	Notice  string // Non-fatal problem to surface, e.g. catalog unavailable
}

// Result reports the outcome of one navigation event and the state after it
type Result struct {
	Event   Event
	Outcome Outcome
	Snapshot
}

// Moved reports whether the event was accepted
func (r Result) Moved() bool {
	return r.Outcome == OutcomeMoved
}
