package store

// EventKind names the mutation that produced an event
type EventKind string

const (
	SessionAdded       EventKind = "session_added"
	SessionDeleted     EventKind = "session_deleted"
	SessionReplaced    EventKind = "session_replaced"
	LocationAdded      EventKind = "location_added"
	LocationDeleted    EventKind = "location_deleted"
	LocationsMerged    EventKind = "locations_merged"
	TransactionAdded   EventKind = "transaction_added"
	TransactionDeleted EventKind = "transaction_deleted"
	Imported           EventKind = "imported"
	Loaded             EventKind = "loaded"
)

// Event is published after a mutation has been persisted
type Event struct {
	Kind EventKind
	ID   string // affected record, empty for bulk events
}

// SessionsChanged reports whether the event touched the session collection
func (e Event) SessionsChanged() bool {
	switch e.Kind {
	case SessionAdded, SessionDeleted, SessionReplaced, Imported, Loaded:
		return true
	}
	return false
}

// Observer receives change events. It runs on the mutating goroutine and
// must not call back into mutating store methods.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}
