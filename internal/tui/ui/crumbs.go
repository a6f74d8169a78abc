package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Crumbs shows the page stack, plus a live call indicator on the right.
type Crumbs struct {
	*tview.TextView
	theme *Theme
	stack []string
	call  string
}

// NewCrumbs creates a new breadcrumb bar.
func NewCrumbs(theme *Theme) *Crumbs {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &Crumbs{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the trail for stack, top page last.
func (c *Crumbs) Update(stack []string) {
	c.stack = append(c.stack[:0], stack...)
	c.render()
}

// SetCall shows label as the ongoing call; empty hides it.
func (c *Crumbs) SetCall(label string) {
	if label == c.call {
		return
	}
	c.call = label
	c.render()
}

func (c *Crumbs) render() {
	c.Clear()

	parts := make([]string, 0, len(c.stack))
	for i, name := range c.stack {
		fg, bg, attr := c.theme.CrumbInactiveFg, c.theme.CrumbInactiveBg, ""
		if i == len(c.stack)-1 {
			fg, bg, attr = c.theme.CrumbActiveFg, c.theme.CrumbActiveBg, "b"
		}
		parts = append(parts, fmt.Sprintf("[%s:%s:%s] %s [-:-:-]", ColorTag(fg), ColorTag(bg), attr, tview.Escape(name)))
	}
	_, _ = fmt.Fprint(c, strings.Join(parts, " › "))

	if c.call != "" {
		_, _ = fmt.Fprintf(c, "  [%s::b]● %s[-:-:-]", ColorTag(c.theme.CallActiveColor), tview.Escape(c.call))
	}
}
