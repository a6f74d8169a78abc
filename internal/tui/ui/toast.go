package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ToastBar is the single-line banner for the latest inbound message.
type ToastBar struct {
	*tview.TextView
	theme *Theme
}

// NewToastBar creates an empty toast bar.
func NewToastBar(theme *Theme) *ToastBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &ToastBar{
		TextView: tv,
		theme:    theme,
	}
}

// Show renders a toast. An empty name clears the bar.
func (tb *ToastBar) Show(name, message string) {
	tb.Clear()
	if name == "" {
		tb.SetBackgroundColor(tb.theme.BgColor)
		return
	}
	tb.SetBackgroundColor(tb.theme.ToastBg)
	_, _ = fmt.Fprintf(tb, " [%s::b]✉ %s:[-:-:-] [%s]%s[-]  [::d](x dismiss)[-:-:-]",
		ColorTag(tb.theme.ToastFg), tview.Escape(name),
		ColorTag(tb.theme.ToastFg), tview.Escape(message))
}
