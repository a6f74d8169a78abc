package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopbackAcquire(t *testing.T) {
	l := NewLoopback()
	s, err := l.Acquire(context.Background(), Constraints{Width: 64, Height: 36, FrameRate: 30, Audio: true})
	require.NoError(t, err)

	assert.Len(t, TracksOf(s, Video), 1)
	assert.Len(t, TracksOf(s, Audio), 1)
	assert.Equal(t, 1, l.Acquisitions())

	frame, err := s.Frame()
	require.NoError(t, err)
	assert.Equal(t, 64, frame.Bounds().Dx())
	assert.Equal(t, 36, frame.Bounds().Dy())

	s.Release()
	for _, tr := range s.Tracks() {
		assert.True(t, tr.Stopped())
		assert.False(t, tr.Enabled())
	}
	_, err = s.Frame()
	assert.Error(t, err)
	s.Release()
}

func TestLoopbackRejectsBadConstraints(t *testing.T) {
	_, err := NewLoopback().Acquire(context.Background(), Constraints{})
	assert.Error(t, err)
}

func TestLoopbackHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoopback().Acquire(ctx, StillConstraints)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetEnabled(t *testing.T) {
	s, err := NewLoopback().Acquire(context.Background(), Constraints{Width: 4, Height: 4, Audio: true})
	require.NoError(t, err)
	mic := TracksOf(s, Audio)[0]
	mic.SetEnabled(false)
	assert.False(t, mic.Enabled())
	mic.SetEnabled(true)
	assert.True(t, mic.Enabled())
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Acquire(context.Background(), StillConstraints)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCaptureStill(t *testing.T) {
	url, err := CaptureStill(context.Background(), NewLoopback())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	_, err = CaptureStill(context.Background(), Unavailable{})
	assert.ErrorIs(t, err, ErrUnavailable)
}
