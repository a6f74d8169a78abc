package store

import (
	"github.com/matheus3301/lmekki/internal/bus"
	"github.com/matheus3301/lmekki/internal/ids"
	"github.com/matheus3301/lmekki/internal/seed"
)

// FromSeed builds the startup directory and conversations: every seed contact
// gets an empty thread and the AI contact opens with its welcome message.
func FromSeed(s *seed.Seed, b *bus.Bus) (*Directory, *Conversations) {
	contacts := make([]Contact, 0, len(s.Contacts))
	for _, c := range s.Contacts {
		contacts = append(contacts, Contact{
			ID:              c.ID,
			Name:            c.Name,
			Avatar:          c.Avatar,
			LastMessage:     c.LastMessage,
			LastMessageTime: c.LastMessageTime,
			UnreadCount:     c.Unread,
		})
	}
	dir := NewDirectory(contacts, s.AI.ContactID, b)

	convs := NewConversations(b)
	for _, c := range s.Contacts {
		convs.mu.Lock()
		convs.thread(c.ID)
		convs.mu.Unlock()
	}
	if s.AI.Welcome != "" {
		convs.AppendMessage(s.AI.ContactID, Message{
			ID:        ids.NewMessageID(),
			Text:      s.AI.Welcome,
			Sender:    SenderAI,
			Timestamp: ids.Now(),
		})
	}
	return dir, convs
}
