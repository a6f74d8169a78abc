package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// menuRows is how many hints fit in one header column.
const menuRows = 5

// Menu lists the current page's key hints in columns.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders hints column-major, menuRows per column.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, RenderHints(m.theme, hints))
}

// RenderHints lays hints out column-major, menuRows per column.
func RenderHints(theme *Theme, hints []MenuHint) string {
	keyColor := ColorTag(theme.MenuKeyColor)
	numColor := ColorTag(theme.NumericKeyColor)

	cells := make([]string, len(hints))
	for i, h := range hints {
		kc := keyColor
		if h.Numeric {
			kc = numColor
		}
		// Pad on the visible text; tags take no width.
		label := fmt.Sprintf("<%s> %s", h.Key, h.Description)
		pad := max(0, 22-len([]rune(label)))
		cells[i] = fmt.Sprintf("[%s::b]<%s>[-:-:-] %s%s", kc, tview.Escape(h.Key), tview.Escape(h.Description), strings.Repeat(" ", pad))
	}

	var sb strings.Builder
	for row := range min(menuRows, len(cells)) {
		for i := row; i < len(cells); i += menuRows {
			sb.WriteString(cells[i])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
