// Package media is the device-media boundary: acquiring camera and
// microphone tracks under resolution and frame-rate constraints.
package media

import (
	"context"
	"errors"
	"image"
)

// ErrUnavailable is returned when no capture device exists.
var ErrUnavailable = errors.New("media: no capture device available")

// Kind distinguishes audio from video tracks.
type Kind string

const (
	Audio Kind = "audio"
	Video Kind = "video"
)

// Constraints describe a capture request.
type Constraints struct {
	Width     int
	Height    int
	FrameRate int
	Audio     bool
}

// Track is one live capture track.
type Track interface {
	Kind() Kind
	Enabled() bool
	SetEnabled(enabled bool)
	Stop()
	Stopped() bool
}

// Stream is a set of tracks acquired together.
type Stream interface {
	Tracks() []Track
	// Frame returns the current video frame.
	Frame() (image.Image, error)
	// Release stops every track. Safe to call more than once.
	Release()
}

// Provider acquires device streams.
type Provider interface {
	Acquire(ctx context.Context, c Constraints) (Stream, error)
}

// TracksOf returns the stream's tracks of kind k.
func TracksOf(s Stream, k Kind) []Track {
	var out []Track
	for _, t := range s.Tracks() {
		if t.Kind() == k {
			out = append(out, t)
		}
	}
	return out
}

// Unavailable is a Provider with no devices.
type Unavailable struct{}

// Acquire always fails with ErrUnavailable.
func (Unavailable) Acquire(context.Context, Constraints) (Stream, error) {
	return nil, ErrUnavailable
}
