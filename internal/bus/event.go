package bus

import "time"

// Event kinds. Subscribers filter by namespace prefix, e.g. "conversation.".
const (
	ConversationAppended = "conversation.appended"
	ConversationUpdated  = "conversation.updated"
	ConversationTyping   = "conversation.typing"
	DirectoryChanged     = "directory.changed"
	NotifyShown          = "notify.shown"
	NotifyDismissed      = "notify.dismissed"
	CallStateChanged     = "call.state_changed"
	CallTick             = "call.tick"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// MessageRef identifies one message in one contact's thread.
type MessageRef struct {
	ContactID string
	MessageID string
}
