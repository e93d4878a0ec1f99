// Package core holds the domain of cell: the resource records kept in stores,
// the events stores publish, and the ports persistence adapters implement.
package core

import "fmt"

// EventType represents the type of change observed on a stored value.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	EventCommit EventType = "COMMIT"
)

// Event represents a change of a stored value.
// Stores emit EventCommit; persistence watchers emit the other types.
type Event struct {
	Type      EventType
	ID        string // store name or record file name
	Seq       uint64 // commit sequence number, zero for watcher events
	Timestamp int64  // Unix milliseconds
}

// String implements lifecycle.Event.
func (e Event) String() string {
	if e.Seq > 0 {
		return fmt.Sprintf("%s %s #%d", e.Type, e.ID, e.Seq)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
