// Package call manages one local video call: device acquisition, mute and
// camera toggles, quality changes and the duration counter.
package call

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/matheus3301/lmekki/internal/bus"
	"github.com/matheus3301/lmekki/internal/media"
	"go.uber.org/zap"
)

// DefaultTick is the duration counter period.
const DefaultTick = time.Second

// Option configures a Session.
type Option func(*Session)

// WithTick overrides the duration counter period.
func WithTick(d time.Duration) Option {
	return func(s *Session) { s.tick = d }
}

// WithSettings sets the initial quality settings.
func WithSettings(set Settings) Option {
	return func(s *Session) { s.settings = set }
}

// Session is a single call. It owns its media stream exclusively and
// releases it on every path into Ended.
type Session struct {
	mu        sync.Mutex
	quality   sync.Mutex // held across a whole SetQuality release/acquire cycle
	contactID string
	state     State
	settings  Settings
	provider  media.Provider
	stream    media.Stream
	muted     bool
	cameraOff bool
	ticks     int
	tick      time.Duration
	cancel    context.CancelFunc
	bus       *bus.Bus
	logger    *zap.Logger
}

// NewSession creates a session in Initializing.
func NewSession(contactID string, provider media.Provider, b *bus.Bus, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		contactID: contactID,
		state:     Initializing,
		settings:  DefaultSettings,
		provider:  provider,
		tick:      DefaultTick,
		bus:       b,
		logger:    logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ContactID returns the called contact.
func (s *Session) ContactID() string {
	return s.contactID
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Settings returns the current quality settings.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Start acquires devices and enters Active. Acquisition failure ends the
// session and is returned; there is no retry.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != Initializing {
		from := s.state
		s.mu.Unlock()
		return &TransitionError{From: from, To: Active}
	}
	settings := s.settings
	s.mu.Unlock()

	stream, err := s.provider.Acquire(ctx, settings.Constraints())
	if err != nil {
		s.logger.Error("media acquisition failed", zap.String("contact", s.contactID), zap.Error(err))
		s.End()
		return fmt.Errorf("accessing camera and microphone: %w", err)
	}

	s.mu.Lock()
	if s.state != Initializing {
		// Ended while acquiring.
		s.mu.Unlock()
		stream.Release()
		return ErrEnded
	}
	s.stream = stream
	tickCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.transition(Active)
	s.mu.Unlock()

	go s.count(tickCtx)
	s.logger.Info("call started", zap.String("contact", s.contactID), zap.String("resolution", string(settings.Resolution)))
	return nil
}

func (s *Session) count(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			if s.state != Active {
				s.mu.Unlock()
				return
			}
			s.ticks++
			d := time.Duration(s.ticks) * time.Second
			s.mu.Unlock()
			s.bus.Emit(bus.CallTick, d)
		case <-ctx.Done():
			return
		}
	}
}

// ToggleMute flips the microphone tracks on the existing stream and returns
// the new muted state.
func (s *Session) ToggleMute() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Active {
		return s.muted, ErrEnded
	}
	s.muted = !s.muted
	for _, t := range media.TracksOf(s.stream, media.Audio) {
		t.SetEnabled(!s.muted)
	}
	return s.muted, nil
}

// ToggleCamera flips the video tracks on the existing stream and returns
// whether the camera is now off.
func (s *Session) ToggleCamera() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Active {
		return s.cameraOff, ErrEnded
	}
	s.cameraOff = !s.cameraOff
	for _, t := range media.TracksOf(s.stream, media.Video) {
		t.SetEnabled(!s.cameraOff)
	}
	return s.cameraOff, nil
}

// Muted reports whether the microphone is muted.
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// CameraOff reports whether the camera is disabled.
func (s *Session) CameraOff() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cameraOff
}

// SetQuality applies new settings. While Active, the current stream is
// released and exactly one new acquisition is made with the new
// constraints; failure ends the call.
func (s *Session) SetQuality(ctx context.Context, set Settings) error {
	if err := set.Validate(); err != nil {
		return err
	}

	s.quality.Lock()
	defer s.quality.Unlock()

	s.mu.Lock()
	switch s.state {
	case Ended:
		s.mu.Unlock()
		return ErrEnded
	case Initializing:
		s.settings = set
		s.mu.Unlock()
		return nil
	}
	old := s.stream
	s.stream = nil
	s.settings = set
	s.mu.Unlock()

	if old != nil {
		old.Release()
	}

	stream, err := s.provider.Acquire(ctx, set.Constraints())
	if err != nil {
		s.logger.Error("media re-acquisition failed", zap.String("contact", s.contactID), zap.Error(err))
		s.End()
		return fmt.Errorf("applying %s@%d: %w", set.Resolution, set.FrameRate, err)
	}

	s.mu.Lock()
	if s.state != Active {
		s.mu.Unlock()
		stream.Release()
		return ErrEnded
	}
	for _, t := range media.TracksOf(stream, media.Audio) {
		t.SetEnabled(!s.muted)
	}
	for _, t := range media.TracksOf(stream, media.Video) {
		t.SetEnabled(!s.cameraOff)
	}
	prev := s.stream
	s.stream = stream
	s.mu.Unlock()

	if prev != nil {
		prev.Release()
	}

	s.logger.Info("call quality changed", zap.String("resolution", string(set.Resolution)), zap.Int("fps", set.FrameRate))
	return nil
}

// End releases every device resource and enters Ended. Idempotent.
func (s *Session) End() {
	s.mu.Lock()
	if s.state == Ended {
		s.mu.Unlock()
		return
	}
	stream := s.stream
	s.stream = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.transition(Ended)
	d := time.Duration(s.ticks) * time.Second
	s.mu.Unlock()

	if stream != nil {
		stream.Release()
	}
	s.logger.Info("call ended", zap.String("contact", s.contactID), zap.Duration("duration", d))
}

// Duration returns the elapsed active time in whole seconds.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.ticks) * time.Second
}

// Tracks returns the number of live tracks held by the session.
func (s *Session) Tracks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stream == nil {
		return 0
	}
	n := 0
	for _, t := range s.stream.Tracks() {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

// Frame returns the local preview frame.
func (s *Session) Frame() (image.Image, error) {
	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream == nil {
		return nil, ErrEnded
	}
	return stream.Frame()
}

// transition moves to the target state and emits the change. Caller holds s.mu.
func (s *Session) transition(to State) {
	from := s.state
	if !canTransition(from, to) {
		s.logger.Warn("ignored call transition", zap.Error(&TransitionError{From: from, To: to}))
		return
	}
	s.state = to
	s.bus.Emit(bus.CallStateChanged, StateChange{ContactID: s.contactID, From: from, To: to})
}
