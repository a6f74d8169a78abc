package ui

import "github.com/rivo/tview"

// MenuHint is one key hint in the header menu.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // 1-9 jump keys, drawn in their own color
}

// Component is a page of the client. Start and Stop bracket the time it is
// on top of the page stack.
type Component interface {
	tview.Primitive
	Name() string
	Init()
	Start()
	Stop()
	Hints() []MenuHint
}
