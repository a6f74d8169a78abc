package speech

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted replays a fixed list of events.
type scripted struct {
	events  []Event
	stopped bool
}

func (s *scripted) Start(context.Context, string) (<-chan Event, error) {
	ch := make(chan Event, len(s.events))
	for _, e := range s.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

func (s *scripted) Stop() { s.stopped = true }

func TestAlertFor(t *testing.T) {
	tests := []struct {
		code  string
		want  string
		shown bool
	}{
		{CodeAborted, "", false},
		{CodeNetwork, NetworkAlert, true},
		{"not-allowed", "Speech recognition error: not-allowed", true},
		{"no-speech", "Speech recognition error: no-speech", true},
	}
	for _, tt := range tests {
		got, shown := AlertFor(tt.code)
		assert.Equal(t, tt.want, got, tt.code)
		assert.Equal(t, tt.shown, shown, tt.code)
	}
}

func TestTranscriptRevisesInterim(t *testing.T) {
	var r Recognizer = &scripted{events: []Event{
		{Kind: Interim, Index: 0, Transcript: "hel"},
		{Kind: Final, Index: 0, Transcript: "hello "},
		{Kind: Interim, Index: 1, Transcript: "wor"},
		{Kind: Error, Code: CodeAborted},
		{Kind: Final, Index: 1, Transcript: "world"},
	}}
	ch, err := r.Start(context.Background(), Locale)
	require.NoError(t, err)

	var tr Transcript
	var seen []string
	for e := range ch {
		seen = append(seen, tr.Apply(e))
	}
	assert.Equal(t, []string{"hel", "hello ", "hello wor", "hello wor", "hello world"}, seen)
	r.Stop()
}
