package call

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/lmekki/internal/bus"
	"github.com/matheus3301/lmekki/internal/media"
	"go.uber.org/zap"
)

// countingProvider records every acquisition and can be told to fail.
type countingProvider struct {
	mu       sync.Mutex
	inner    *media.Loopback
	delay    time.Duration // held inside Acquire, to widen overlaps
	requests []media.Constraints
	streams  []media.Stream
	failFrom int // fail acquisitions numbered >= failFrom (1-based); 0 never fails
}

func newCountingProvider() *countingProvider {
	return &countingProvider{inner: media.NewLoopback()}
}

func (p *countingProvider) Acquire(ctx context.Context, c media.Constraints) (media.Stream, error) {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, c)
	if p.failFrom > 0 && len(p.requests) >= p.failFrom {
		return nil, errors.New("permission denied")
	}
	s, err := p.inner.Acquire(ctx, c)
	if err == nil {
		p.streams = append(p.streams, s)
	}
	return s, err
}

func allStopped(s media.Stream) bool {
	for _, t := range s.Tracks() {
		if !t.Stopped() {
			return false
		}
	}
	return true
}

func TestStartAcquiresWithDefaults(t *testing.T) {
	p := newCountingProvider()
	s := NewSession("user-2", p, nil, zap.NewNop())
	if s.State() != Initializing {
		t.Fatalf("initial state = %s, want INITIALIZING", s.State())
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.End()

	if s.State() != Active {
		t.Errorf("state = %s, want ACTIVE", s.State())
	}
	want := media.Constraints{Width: 1280, Height: 720, FrameRate: 30, Audio: true}
	if len(p.requests) != 1 || p.requests[0] != want {
		t.Errorf("requests = %+v, want [%+v]", p.requests, want)
	}
	if s.Tracks() != 2 {
		t.Errorf("Tracks() = %d, want 2", s.Tracks())
	}
}

func TestEndReleasesAllTracks(t *testing.T) {
	p := newCountingProvider()
	s := NewSession("user-2", p, nil, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.End()

	if s.Tracks() != 0 {
		t.Errorf("Tracks() = %d after End, want 0", s.Tracks())
	}
	if !allStopped(p.streams[0]) {
		t.Error("stream tracks still live after End")
	}
	if s.State() != Ended {
		t.Errorf("state = %s, want ENDED", s.State())
	}
	s.End()
}

func TestSetQualityReacquiresOnce(t *testing.T) {
	p := newCountingProvider()
	s := NewSession("user-2", p, nil, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.End()

	if err := s.SetQuality(context.Background(), Settings{Resolution: Res1080p, FrameRate: 15}); err != nil {
		t.Fatal(err)
	}
	if len(p.requests) != 2 {
		t.Fatalf("got %d acquisitions, want 2", len(p.requests))
	}
	want := media.Constraints{Width: 1920, Height: 1080, FrameRate: 15, Audio: true}
	if p.requests[1] != want {
		t.Errorf("second request = %+v, want %+v", p.requests[1], want)
	}
	if !allStopped(p.streams[0]) {
		t.Error("previous stream not released")
	}
	if allStopped(p.streams[1]) {
		t.Error("new stream should be live")
	}
	if s.Settings().Resolution != Res1080p {
		t.Errorf("resolution = %s, want 1080p", s.Settings().Resolution)
	}
}

func TestConcurrentSetQualityLeavesOneStream(t *testing.T) {
	p := newCountingProvider()
	s := NewSession("user-2", p, nil, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	p.delay = 20 * time.Millisecond

	var wg sync.WaitGroup
	for _, set := range []Settings{{Resolution: Res360p, FrameRate: 30}, {Resolution: Res1080p, FrameRate: 15}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.SetQuality(context.Background(), set); err != nil {
				t.Errorf("SetQuality(%+v): %v", set, err)
			}
		}()
	}
	wg.Wait()

	if len(p.requests) != 3 {
		t.Fatalf("got %d acquisitions, want 3", len(p.requests))
	}
	live := 0
	for _, st := range p.streams {
		if !allStopped(st) {
			live++
		}
	}
	if live != 1 {
		t.Errorf("%d streams live before End, want 1", live)
	}

	s.End()
	for i, st := range p.streams {
		if !allStopped(st) {
			t.Errorf("stream %d still live after End", i)
		}
	}
}

func TestSetQualityKeepsToggles(t *testing.T) {
	p := newCountingProvider()
	s := NewSession("user-2", p, nil, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.End()

	if muted, _ := s.ToggleMute(); !muted {
		t.Fatal("ToggleMute() = false, want muted")
	}
	if err := s.SetQuality(context.Background(), Settings{Resolution: Res360p, FrameRate: 30}); err != nil {
		t.Fatal(err)
	}
	mic := media.TracksOf(p.streams[1], media.Audio)[0]
	if mic.Enabled() {
		t.Error("microphone re-enabled after quality change")
	}
}

func TestSetQualityBeforeStart(t *testing.T) {
	p := newCountingProvider()
	s := NewSession("user-2", p, nil, zap.NewNop())
	if err := s.SetQuality(context.Background(), Settings{Resolution: Res360p, FrameRate: 15}); err != nil {
		t.Fatal(err)
	}
	if len(p.requests) != 0 {
		t.Errorf("got %d acquisitions before Start, want 0", len(p.requests))
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.End()
	if p.requests[0].Width != 640 {
		t.Errorf("width = %d, want 640", p.requests[0].Width)
	}
}

func TestSetQualityRejectsUnknown(t *testing.T) {
	s := NewSession("user-2", newCountingProvider(), nil, zap.NewNop())
	if err := s.SetQuality(context.Background(), Settings{Resolution: "4k", FrameRate: 30}); err == nil {
		t.Error("expected error for unknown resolution")
	}
	if err := s.SetQuality(context.Background(), Settings{Resolution: Res720p, FrameRate: 60}); err == nil {
		t.Error("expected error for 60fps")
	}
}

func TestAcquisitionFailureEndsCall(t *testing.T) {
	p := newCountingProvider()
	p.failFrom = 1
	s := NewSession("user-2", p, nil, zap.NewNop())

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start() should fail")
	}
	if s.State() != Ended {
		t.Errorf("state = %s, want ENDED", s.State())
	}
	if s.Tracks() != 0 {
		t.Errorf("Tracks() = %d, want 0", s.Tracks())
	}
	if err := s.Start(context.Background()); err == nil {
		t.Error("restart of ended session should fail")
	}
}

func TestReacquisitionFailureEndsCall(t *testing.T) {
	p := newCountingProvider()
	p.failFrom = 2
	s := NewSession("user-2", p, nil, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.SetQuality(context.Background(), Settings{Resolution: Res360p, FrameRate: 15}); err == nil {
		t.Fatal("SetQuality() should fail")
	}
	if s.State() != Ended || s.Tracks() != 0 {
		t.Errorf("state = %s tracks = %d, want ENDED with 0 tracks", s.State(), s.Tracks())
	}
	if !allStopped(p.streams[0]) {
		t.Error("original stream not released")
	}
}

func TestTogglesAfterEnd(t *testing.T) {
	s := NewSession("user-2", newCountingProvider(), nil, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.End()
	if _, err := s.ToggleMute(); !errors.Is(err, ErrEnded) {
		t.Errorf("ToggleMute() error = %v, want ErrEnded", err)
	}
	if _, err := s.ToggleCamera(); !errors.Is(err, ErrEnded) {
		t.Errorf("ToggleCamera() error = %v, want ErrEnded", err)
	}
	if err := s.SetQuality(context.Background(), DefaultSettings); !errors.Is(err, ErrEnded) {
		t.Errorf("SetQuality() error = %v, want ErrEnded", err)
	}
}

func TestToggleCameraDoesNotReacquire(t *testing.T) {
	p := newCountingProvider()
	s := NewSession("user-2", p, nil, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.End()

	off, err := s.ToggleCamera()
	if err != nil || !off {
		t.Fatalf("ToggleCamera() = %v, %v; want true, nil", off, err)
	}
	if media.TracksOf(p.streams[0], media.Video)[0].Enabled() {
		t.Error("video track still enabled")
	}
	if len(p.requests) != 1 {
		t.Errorf("got %d acquisitions, want 1", len(p.requests))
	}
}

func TestDurationTicks(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("call.tick", 16)
	defer unsub()

	s := NewSession("user-2", newCountingProvider(), b, zap.NewNop(), WithTick(5*time.Millisecond))
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	for range 3 {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for tick")
		}
	}
	s.End()
	d := s.Duration()
	if d < 3*time.Second {
		t.Errorf("Duration() = %s, want >= 3s", d)
	}
	time.Sleep(20 * time.Millisecond)
	if s.Duration() != d {
		t.Error("duration kept counting after End")
	}
}

func TestStateEvents(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("call.state_changed", 4)
	defer unsub()

	s := NewSession("user-2", newCountingProvider(), b, zap.NewNop())
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.End()

	for _, want := range []State{Active, Ended} {
		evt := <-ch
		change, ok := evt.Payload.(StateChange)
		if !ok || change.To != want {
			t.Errorf("event = %+v, want transition to %s", evt.Payload, want)
		}
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from, to State
		ok       bool
	}{
		{Initializing, Active, true},
		{Initializing, Ended, true},
		{Active, Ended, true},
		{Active, Initializing, false},
		{Ended, Active, false},
		{Ended, Initializing, false},
	}
	for _, tt := range tests {
		if got := canTransition(tt.from, tt.to); got != tt.ok {
			t.Errorf("canTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{9 * time.Second, "00:09"},
		{61 * time.Second, "01:01"},
		{3725 * time.Second, "62:05"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
