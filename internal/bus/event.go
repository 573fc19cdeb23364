package bus

import "time"

// Event kinds. Subscribers filter by namespace prefix, e.g. "thread.".
const (
	KindThreadStateChanged = "thread.state_changed"
	KindThreadUpdated      = "thread.updated"
	KindChatsUpdated       = "chats.updated"
	KindInstancesUpdated   = "instances.updated"
	KindAuthChanged        = "auth.changed"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
