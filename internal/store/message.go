package store

import (
	"sync"

	"github.com/matheus3301/lmekki/internal/bus"
)

// Conversations owns every contact's thread. It is the single source of truth
// for messages; all mutation goes through AppendMessage, UpdateMessage and SetTyping.
type Conversations struct {
	mu      sync.RWMutex
	threads map[string]*Conversation
	bus     *bus.Bus
}

// NewConversations creates an empty conversation store publishing on b.
func NewConversations(b *bus.Bus) *Conversations {
	return &Conversations{
		threads: make(map[string]*Conversation),
		bus:     b,
	}
}

// AppendMessage appends m to the contact's thread, creating the thread if absent.
func (s *Conversations) AppendMessage(contactID string, m Message) {
	s.mu.Lock()
	conv := s.thread(contactID)
	conv.Messages = append(conv.Messages, m)
	s.mu.Unlock()

	s.bus.Emit(bus.ConversationAppended, bus.MessageRef{ContactID: contactID, MessageID: m.ID})
}

// UpdateMessage applies p to the message with the given id in place.
// Returns false if no such message exists.
func (s *Conversations) UpdateMessage(contactID, messageID string, p Patch) bool {
	s.mu.Lock()
	conv, ok := s.threads[contactID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	found := false
	for i := range conv.Messages {
		if conv.Messages[i].ID != messageID {
			continue
		}
		if p.Text != nil {
			conv.Messages[i].Text = *p.Text
		}
		if p.ImageRef != nil {
			conv.Messages[i].ImageRef = *p.ImageRef
		}
		found = true
		break
	}
	s.mu.Unlock()

	if found {
		s.bus.Emit(bus.ConversationUpdated, bus.MessageRef{ContactID: contactID, MessageID: messageID})
	}
	return found
}

// SetTyping sets the contact's typing flag.
func (s *Conversations) SetTyping(contactID string, typing bool) {
	s.mu.Lock()
	s.thread(contactID).IsTyping = typing
	s.mu.Unlock()

	s.bus.Emit(bus.ConversationTyping, contactID)
}

// GetConversation returns a copy of the contact's thread, or an empty
// conversation if none exists.
func (s *Conversations) GetConversation(contactID string) Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.threads[contactID]
	if !ok {
		return Conversation{Messages: []Message{}}
	}
	msgs := make([]Message, len(conv.Messages))
	copy(msgs, conv.Messages)
	return Conversation{Messages: msgs, IsTyping: conv.IsTyping}
}

// MessageCount returns the total number of messages across all threads.
func (s *Conversations) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, conv := range s.threads {
		n += len(conv.Messages)
	}
	return n
}

// thread returns the contact's conversation, creating it. Caller holds s.mu.
func (s *Conversations) thread(contactID string) *Conversation {
	conv, ok := s.threads[contactID]
	if !ok {
		conv = &Conversation{}
		s.threads[contactID] = conv
	}
	return conv
}
