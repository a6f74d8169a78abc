// Package profile holds the local user's profile.
package profile

import (
	"errors"
	"strings"
	"sync"

	"github.com/matheus3301/lmekki/internal/config"
)

// UserProfile is the local user's public card.
type UserProfile struct {
	Name   string
	Avatar string
	Status string
}

// FromConfig returns the profile configured in cfg.
func FromConfig(cfg *config.Config) UserProfile {
	return UserProfile{Name: cfg.Profile.Name, Avatar: cfg.Profile.Avatar, Status: cfg.Profile.Status}
}

// Holder is the process-wide profile instance.
type Holder struct {
	mu      sync.RWMutex
	current UserProfile
}

// NewHolder creates a holder with an initial profile.
func NewHolder(p UserProfile) *Holder {
	return &Holder{current: p}
}

// Get returns the current profile.
func (h *Holder) Get() UserProfile {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Save replaces the profile wholesale. The name must not be blank.
func (h *Holder) Save(p UserProfile) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Status = strings.TrimSpace(p.Status)
	if p.Name == "" {
		return errors.New("profile name must not be empty")
	}
	h.mu.Lock()
	h.current = p
	h.mu.Unlock()
	return nil
}
