// Package ids generates message identifiers and display time labels.
package ids

import (
	"time"

	"github.com/google/uuid"
)

// NewMessageID returns a UUIDv7 string. v7 ids sort by creation time, which
// keeps them monotonic enough to order messages created in one process.
func NewMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// TimeLabel formats t as the hour:minute label shown next to messages.
func TimeLabel(t time.Time) string {
	return t.Format("15:04")
}

// Now returns the label for the current time.
func Now() string {
	return TimeLabel(time.Now())
}
