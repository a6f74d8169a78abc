package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// HeaderData is the header summary of the local client.
type HeaderData struct {
	Name         string
	Status       string
	AIReady      bool
	Contacts     int
	MessageCount int
	Uptime       time.Duration
}

// ProfileInfo displays the user's profile and client counters in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new header info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the header info.
func (pi *ProfileInfo) Update(data *HeaderData) {
	pi.Clear()
	if data == nil {
		return
	}

	fg := ColorTag(pi.theme.FgColor)
	ct := ColorTag(pi.theme.CounterColor)

	ai := "offline (no API key)"
	if data.AIReady {
		ai = "ready"
	}

	_, _ = fmt.Fprintf(pi,
		"[%s::b]Me:[-:-:-]       [%s]%s[-]\n"+
			"[%s::b]Status:[-:-:-]   [%s]%s[-]\n"+
			"[%s::b]AI:[-:-:-]       [%s]%s[-]\n"+
			"[%s::b]Contacts:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Msgs:[-:-:-]     [%s]%d[-]\n"+
			"[%s::b]Uptime:[-:-:-]   [%s]%s[-]",
		fg, ct, tview.Escape(data.Name),
		fg, ct, tview.Escape(data.Status),
		fg, ct, ai,
		fg, ct, data.Contacts,
		fg, ct, data.MessageCount,
		fg, ct, formatUptime(data.Uptime),
	)
}

func formatUptime(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
