package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"quit", Command{Name: "quit"}},
		{"  Q  ", Command{Name: "q"}},
		{"saveimg /tmp/cat.png", Command{Name: "saveimg", Args: "/tmp/cat.png"}},
		{"search   hello world ", Command{Name: "search", Args: "hello world"}},
		{"CHAT Sarah", Command{Name: "chat", Args: "Sarah"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.in))
		})
	}
}
