// Package seed holds the fixed startup data: the contact directory, the AI
// persona and model identifiers, and the pool of simulated inbound messages.
package seed

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// AI describes the single AI-backed contact.
type AI struct {
	ContactID  string `yaml:"contact_id"`
	ChatModel  string `yaml:"chat_model"`
	ImageModel string `yaml:"image_model"`
	Persona    string `yaml:"persona"`
	Welcome    string `yaml:"welcome"`
}

// Contact is one seed directory entry.
type Contact struct {
	ID              string `yaml:"id" json:"id"`
	Name            string `yaml:"name" json:"name"`
	Avatar          string `yaml:"avatar" json:"avatar"`
	LastMessage     string `yaml:"last_message" json:"last_message"`
	LastMessageTime string `yaml:"last_message_time" json:"last_message_time"`
	Unread          int    `yaml:"unread" json:"unread"`
}

// Seed is the parsed seed document.
type Seed struct {
	AI          AI        `yaml:"ai"`
	Contacts    []Contact `yaml:"contacts"`
	InboundPool []string  `yaml:"inbound_pool"`
}

var idRegexp = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)

// Load parses and validates the embedded seed.
func Load() (*Seed, error) {
	return Parse(defaultSeed)
}

// Parse decodes and validates a seed document.
func Parse(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks contact ids and that the AI contact is present exactly once.
func (s *Seed) Validate() error {
	if len(s.Contacts) == 0 {
		return fmt.Errorf("seed: no contacts")
	}
	seen := make(map[string]bool, len(s.Contacts))
	aiFound := false
	for _, c := range s.Contacts {
		if !idRegexp.MatchString(c.ID) {
			return fmt.Errorf("seed: invalid contact id %q: must match ^[a-z0-9_-]{1,64}$", c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("seed: duplicate contact id %q", c.ID)
		}
		seen[c.ID] = true
		if c.ID == s.AI.ContactID {
			aiFound = true
		}
		if c.Unread < 0 {
			return fmt.Errorf("seed: contact %q has negative unread count", c.ID)
		}
	}
	if !aiFound {
		return fmt.Errorf("seed: AI contact %q not in contact list", s.AI.ContactID)
	}
	if len(s.InboundPool) == 0 {
		return fmt.Errorf("seed: inbound message pool is empty")
	}
	return nil
}
