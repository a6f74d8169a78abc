package call

import (
	"fmt"
	"time"

	"github.com/matheus3301/lmekki/internal/media"
)

// Resolution is a named capture size.
type Resolution string

const (
	Res360p  Resolution = "360p"
	Res720p  Resolution = "720p"
	Res1080p Resolution = "1080p"
)

var dimensions = map[Resolution][2]int{
	Res360p:  {640, 360},
	Res720p:  {1280, 720},
	Res1080p: {1920, 1080},
}

// Resolutions lists the selectable resolutions, lowest first.
var Resolutions = []Resolution{Res360p, Res720p, Res1080p}

// FrameRates lists the selectable frame rates.
var FrameRates = []int{15, 30}

// Settings are the quality settings of one call.
type Settings struct {
	Resolution Resolution
	FrameRate  int
}

// DefaultSettings is 720p at 30fps.
var DefaultSettings = Settings{Resolution: Res720p, FrameRate: 30}

// Validate rejects unknown resolutions and frame rates.
func (s Settings) Validate() error {
	if _, ok := dimensions[s.Resolution]; !ok {
		return fmt.Errorf("unknown resolution %q", s.Resolution)
	}
	if s.FrameRate != 15 && s.FrameRate != 30 {
		return fmt.Errorf("unsupported frame rate %d", s.FrameRate)
	}
	return nil
}

// Constraints converts settings to a camera+microphone request.
func (s Settings) Constraints() media.Constraints {
	d := dimensions[s.Resolution]
	return media.Constraints{Width: d[0], Height: d[1], FrameRate: s.FrameRate, Audio: true}
}

// FormatDuration renders d as MM:SS. Minutes keep counting past 59.
func FormatDuration(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
