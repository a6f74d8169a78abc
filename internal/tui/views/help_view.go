package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/lmekki/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Init implements Component.
func (hv *HelpView) Init() {}

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	kc := ui.ColorTag(hv.theme.MenuKeyColor)

	sections := []struct {
		title string
		rows  [][2]string
	}{
		{"Global Keys", [][2]string{
			{":", "Command mode"},
			{"/", "Filter contacts"},
			{"?", "Help"},
			{"p", "My profile"},
			{"x", "Dismiss notification"},
			{"Esc", "Cancel / Go back"},
			{"q", "Quit (from the chat list)"},
		}},
		{"Chat List", [][2]string{
			{"Enter", "Open chat"},
			{"1-9", "Open Nth chat"},
			{"j/k", "Move down / up"},
		}},
		{"Chat", [][2]string{
			{"i", "Focus composer"},
			{"Enter", "Send (in composer)"},
			{"d", "Contact profile"},
			{"c", "Start video call (not with the assistant)"},
			{"/imagine <prompt>", "Generate an image (assistant only)"},
		}},
		{"Call", [][2]string{
			{"m", "Mute / unmute microphone"},
			{"v", "Camera on / off"},
			{"r", "Cycle resolution 360p/720p/1080p"},
			{"f", "Toggle 15/30 fps"},
			{"e", "End call"},
		}},
		{"Commands (: mode)", [][2]string{
			{":chat <name>", "Open the first matching chat"},
			{":call", "Call the open contact"},
			{":contact", "Open contact profile"},
			{":profile", "Edit my profile"},
			{":search <query>", "Search messages"},
			{":saveimg [file]", "Save the latest image in this chat"},
			{":voice", "Dictate into the composer"},
			{":help / :h", "Show this help"},
			{":quit / :q", "Quit application"},
		}},
	}

	var sb strings.Builder
	for _, sec := range sections {
		fmt.Fprintf(&sb, "\n  [::b]%s[-:-:-]\n\n", sec.title)
		for _, r := range sec.rows {
			fmt.Fprintf(&sb, "  [%s]%-20s[-:-:-] %s\n", kc, tview.Escape(r[0]), r[1])
		}
	}
	_, _ = fmt.Fprint(hv, sb.String())
}
