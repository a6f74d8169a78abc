package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/matheus3301/lmekki/internal/bus"
)

// Directory is the ordered contact list. Exactly one contact is AI-backed.
// Contacts are never removed during a session.
type Directory struct {
	mu       sync.RWMutex
	contacts []*Contact
	index    map[string]int
	aiID     string
	active   string
	bus      *bus.Bus
}

// NewDirectory creates a directory from contacts in display order. The
// active contact starts as the AI-backed one.
func NewDirectory(contacts []Contact, aiID string, b *bus.Bus) *Directory {
	d := &Directory{
		index:  make(map[string]int, len(contacts)),
		aiID:   aiID,
		active: aiID,
		bus:    b,
	}
	for _, c := range contacts {
		c := c
		d.index[c.ID] = len(d.contacts)
		d.contacts = append(d.contacts, &c)
	}
	return d
}

// List returns a snapshot of all contacts in display order.
func (d *Directory) List() []Contact {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Contact, len(d.contacts))
	for i, c := range d.contacts {
		out[i] = *c
	}
	return out
}

// Get returns a contact by id.
func (d *Directory) Get(id string) (Contact, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, ok := d.index[id]
	if !ok {
		return Contact{}, false
	}
	return *d.contacts[i], true
}

// AIContactID returns the id of the AI-backed contact.
func (d *Directory) AIContactID() string {
	return d.aiID
}

// IsAI reports whether id is the AI-backed contact.
func (d *Directory) IsAI(id string) bool {
	return id == d.aiID
}

// Select makes id the active contact and resets its unread counter to zero.
func (d *Directory) Select(id string) error {
	d.mu.Lock()
	i, ok := d.index[id]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("unknown contact %q", id)
	}
	d.active = id
	d.contacts[i].UnreadCount = 0
	d.mu.Unlock()

	d.bus.Emit(bus.DirectoryChanged, id)
	return nil
}

// Active returns the id of the active contact.
func (d *Directory) Active() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// Filter returns contacts whose name contains query, case-insensitively.
// An empty query returns every contact.
func (d *Directory) Filter(query string) []Contact {
	all := d.List()
	if query == "" {
		return all
	}
	q := strings.ToLower(query)
	var out []Contact
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// RecordSummary overwrites the contact's last-message summary fields.
func (d *Directory) RecordSummary(id, text, timeLabel string) {
	d.mu.Lock()
	i, ok := d.index[id]
	if ok {
		d.contacts[i].LastMessage = text
		d.contacts[i].LastMessageTime = timeLabel
	}
	d.mu.Unlock()

	if ok {
		d.bus.Emit(bus.DirectoryChanged, id)
	}
}

// IncrementUnread adds one to the contact's unread counter and returns the new value.
func (d *Directory) IncrementUnread(id string) int {
	d.mu.Lock()
	i, ok := d.index[id]
	n := 0
	if ok {
		d.contacts[i].UnreadCount++
		n = d.contacts[i].UnreadCount
	}
	d.mu.Unlock()

	if ok {
		d.bus.Emit(bus.DirectoryChanged, id)
	}
	return n
}

// UpdateProfile replaces a contact's display name and avatar.
func (d *Directory) UpdateProfile(id, name, avatar string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("contact name must not be empty")
	}
	d.mu.Lock()
	i, ok := d.index[id]
	if !ok {
		d.mu.Unlock()
		return fmt.Errorf("unknown contact %q", id)
	}
	d.contacts[i].Name = name
	d.contacts[i].Avatar = avatar
	d.mu.Unlock()

	d.bus.Emit(bus.DirectoryChanged, id)
	return nil
}

// UnreadBadge renders an unread counter for display, capped at "9+".
// Zero renders as the empty string.
func UnreadBadge(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 9:
		return "9+"
	default:
		return strconv.Itoa(n)
	}
}
