package media

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/matheus3301/lmekki/internal/dataurl"
)

// StillConstraints are used for contact photo capture.
var StillConstraints = Constraints{Width: 320, Height: 240, FrameRate: 15}

// CaptureStill grabs one video frame and returns it as a PNG data URL.
// The stream is always released before returning.
func CaptureStill(ctx context.Context, p Provider) (string, error) {
	s, err := p.Acquire(ctx, StillConstraints)
	if err != nil {
		return "", fmt.Errorf("accessing camera: %w", err)
	}
	defer s.Release()

	frame, err := s.Frame()
	if err != nil {
		return "", fmt.Errorf("capturing frame: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return "", fmt.Errorf("encoding frame: %w", err)
	}
	return dataurl.Encode("image/png", buf.Bytes()), nil
}
