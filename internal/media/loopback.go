package media

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"
)

// Loopback is a synthetic local device: it produces a moving test pattern
// at the requested size and a silent audio track.
type Loopback struct {
	acquired atomic.Int64
}

// NewLoopback creates a loopback provider.
func NewLoopback() *Loopback {
	return &Loopback{}
}

// Acquire returns a new stream for c.
func (l *Loopback) Acquire(ctx context.Context, c Constraints) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("media: invalid resolution %dx%d", c.Width, c.Height)
	}
	l.acquired.Add(1)
	s := &loopbackStream{
		width:   c.Width,
		height:  c.Height,
		started: time.Now(),
	}
	s.tracks = append(s.tracks, &track{kind: Video, enabled: true})
	if c.Audio {
		s.tracks = append(s.tracks, &track{kind: Audio, enabled: true})
	}
	return s, nil
}

// Acquisitions returns how many streams have been handed out.
func (l *Loopback) Acquisitions() int {
	return int(l.acquired.Load())
}

type loopbackStream struct {
	width, height int
	started       time.Time
	tracks        []Track
}

func (s *loopbackStream) Tracks() []Track {
	return s.tracks
}

func (s *loopbackStream) Release() {
	for _, t := range s.tracks {
		t.Stop()
	}
}

func (s *loopbackStream) Frame() (image.Image, error) {
	v := TracksOf(s, Video)
	if len(v) == 0 || v[0].Stopped() {
		return nil, fmt.Errorf("media: video track stopped")
	}
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	if !v[0].Enabled() {
		return img, nil
	}
	shift := int(time.Since(s.started) / (100 * time.Millisecond))
	for y := range s.height {
		for x := range s.width {
			img.Set(x, y, color.RGBA{
				R: uint8((x + shift) * 255 / max(s.width, 1)),
				G: uint8(y * 255 / max(s.height, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img, nil
}

type track struct {
	mu      sync.Mutex
	kind    Kind
	enabled bool
	stopped bool
}

func (t *track) Kind() Kind { return t.kind }

func (t *track) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled && !t.stopped
}

func (t *track) SetEnabled(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	t.mu.Unlock()
}

func (t *track) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *track) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
