package views

import (
	"fmt"
	"image"
	"strings"

	"github.com/matheus3301/lmekki/internal/call"
	"github.com/matheus3301/lmekki/internal/tui/ui"
	"github.com/rivo/tview"
)

// Preview size in terminal cells. Each cell shows two pixel rows.
const (
	previewCols = 48
	previewRows = 12
)

// CallStatus is a snapshot of the call controls.
type CallStatus struct {
	ContactName string
	State       call.State
	Duration    string
	Muted       bool
	CameraOff   bool
	Settings    call.Settings
	Tracks      int
}

// CallView shows the local preview, duration and call controls.
type CallView struct {
	*tview.Flex
	theme    *ui.Theme
	preview  *tview.TextView
	controls *tview.TextView
}

// NewCallView creates the call page.
func NewCallView(theme *ui.Theme) *CallView {
	preview := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	preview.SetBorder(true)
	preview.SetBorderColor(theme.BorderColor)
	preview.SetBackgroundColor(theme.BgColor)
	preview.SetTitle(" You ")
	preview.SetTitleColor(theme.TitleColor)

	controls := tview.NewTextView().
		SetDynamicColors(true)
	controls.SetBorder(true)
	controls.SetBorderColor(theme.BorderColor)
	controls.SetBackgroundColor(theme.BgColor)
	controls.SetTextColor(theme.FgColor)
	controls.SetTitle(" Call ")
	controls.SetTitleColor(theme.TitleColor)

	cv := &CallView{
		Flex:     tview.NewFlex(),
		theme:    theme,
		preview:  preview,
		controls: controls,
	}
	cv.AddItem(preview, previewCols+2, 0, false).
		AddItem(controls, 0, 1, true)
	return cv
}

// Name implements Component.
func (cv *CallView) Name() string { return "Call" }

// Init implements Component.
func (cv *CallView) Init() {}

// Start implements Component.
func (cv *CallView) Start() {}

// Stop implements Component.
func (cv *CallView) Stop() {}

// Hints implements Component.
func (cv *CallView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "m", Description: "Mute"},
		{Key: "v", Description: "Camera"},
		{Key: "r", Description: "Resolution"},
		{Key: "f", Description: "Frame rate"},
		{Key: "e", Description: "End call"},
	}
}

// Update renders the controls for s.
func (cv *CallView) Update(s CallStatus) {
	cv.controls.Clear()
	fg := ui.ColorTag(cv.theme.FgColor)
	ct := ui.ColorTag(cv.theme.CounterColor)

	stateColor := ui.ColorTag(cv.theme.CallActiveColor)
	if s.State == call.Ended {
		stateColor = ui.ColorTag(cv.theme.CallEndedColor)
	}

	onOff := func(off bool) string {
		if off {
			return "off"
		}
		return "on"
	}

	_, _ = fmt.Fprintf(cv.controls,
		"\n [%s::b]%s[-:-:-]\n\n"+
			" [%s::b]State:[-:-:-]      [%s]%s[-]\n"+
			" [%s::b]Duration:[-:-:-]   [%s]%s[-]\n"+
			" [%s::b]Microphone:[-:-:-] [%s]%s[-]\n"+
			" [%s::b]Camera:[-:-:-]     [%s]%s[-]\n"+
			" [%s::b]Quality:[-:-:-]    [%s]%s @ %dfps[-]\n"+
			" [%s::b]Tracks:[-:-:-]     [%s]%d[-]",
		ct, tview.Escape(s.ContactName),
		fg, stateColor, s.State,
		fg, ct, s.Duration,
		fg, ct, onOff(s.Muted),
		fg, ct, onOff(s.CameraOff),
		fg, ct, s.Settings.Resolution, s.Settings.FrameRate,
		fg, ct, s.Tracks,
	)
}

// SetFrame renders a preview frame. A nil frame blanks the preview.
func (cv *CallView) SetFrame(img image.Image, cameraOff bool) {
	cv.preview.Clear()
	switch {
	case cameraOff:
		_, _ = fmt.Fprint(cv.preview, "\n\n\n\n\n[::d]camera off[-:-:-]")
	case img == nil:
		_, _ = fmt.Fprint(cv.preview, "\n\n\n\n\n[::d]connecting...[-:-:-]")
	default:
		_, _ = fmt.Fprint(cv.preview, RenderFrame(img, previewCols, previewRows))
	}
}

// RenderFrame downsamples img to cols x rows cells of colored half blocks.
func RenderFrame(img image.Image, cols, rows int) string {
	b := img.Bounds()
	if b.Empty() || cols <= 0 || rows <= 0 {
		return ""
	}
	sample := func(cx, py int) string {
		x := b.Min.X + cx*b.Dx()/cols
		y := b.Min.Y + py*b.Dy()/(rows*2)
		r, g, bl, _ := img.At(x, y).RGBA()
		return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8)
	}

	var sb strings.Builder
	for row := range rows {
		for col := range cols {
			fmt.Fprintf(&sb, "[%s:%s]▀", sample(col, row*2), sample(col, row*2+1))
		}
		sb.WriteString("[-:-]\n")
	}
	return sb.String()
}
