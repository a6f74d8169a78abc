// Package speech is the optional speech-to-text boundary. A nil Recognizer
// means voice input is unsupported; callers check before offering it.
package speech

import (
	"context"
	"fmt"
	"strings"
)

// Locale is the recognition locale.
const Locale = "en-US"

// Error codes reported by recognizers.
const (
	CodeAborted = "aborted"
	CodeNetwork = "network"
)

// EventKind classifies recognizer events.
type EventKind int

const (
	Interim EventKind = iota
	Final
	Error
)

// Event is one recognizer callback. Index identifies the result slot that
// Interim and Final events fill.
type Event struct {
	Kind       EventKind
	Index      int
	Transcript string
	Code       string
}

// Recognizer runs continuous recognition. The returned channel is closed
// when recognition ends, either from Stop, ctx or a terminal error.
type Recognizer interface {
	Start(ctx context.Context, locale string) (<-chan Event, error)
	Stop()
}

// NetworkAlert is shown for network failures.
const NetworkAlert = "A network error occurred during speech recognition. Check your internet connection and try again."

// AlertFor returns the alert for an error code. Aborted is a user stop and
// returns ok == false.
func AlertFor(code string) (string, bool) {
	switch code {
	case CodeAborted:
		return "", false
	case CodeNetwork:
		return NetworkAlert, true
	default:
		return fmt.Sprintf("Speech recognition error: %s", code), true
	}
}

// Transcript joins result slots in order; later events for a slot replace
// earlier ones, so interim text is revised in place.
type Transcript struct {
	results []string
}

// Apply folds a non-error event in and returns the full transcript.
func (t *Transcript) Apply(e Event) string {
	if e.Kind != Error && e.Index >= 0 {
		for len(t.results) <= e.Index {
			t.results = append(t.results, "")
		}
		t.results[e.Index] = e.Transcript
	}
	return t.String()
}

func (t *Transcript) String() string {
	return strings.Join(t.results, "")
}
