package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/lmekki/internal/store"
	"github.com/matheus3301/lmekki/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationList is the contact list with summaries and unread badges.
type ConversationList struct {
	*tview.Table
	theme    *ui.Theme
	contacts []store.Contact
	total    int
	filter   string
	aiID     string
	activeID string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Chats ")
	table.SetTitleColor(theme.TitleColor)

	return &ConversationList{
		Table: table,
		theme: theme,
	}
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Chats" }

// Init implements Component.
func (cl *ConversationList) Init() {}

// Start implements Component.
func (cl *ConversationList) Start() {}

// Stop implements Component.
func (cl *ConversationList) Stop() {}

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: ":", Description: "Command"},
		{Key: "p", Description: "My profile"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-9", Description: "Jump", Numeric: true},
	}
}

// Update replaces the visible contacts. contacts is already filtered;
// total is the unfiltered count for the title.
func (cl *ConversationList) Update(contacts []store.Contact, total int, aiID, activeID string) {
	cl.contacts = contacts
	cl.total = total
	cl.aiID = aiID
	cl.activeID = activeID
	cl.render()
}

// SetFilter records the filter shown in the title.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
}

// Filter returns the current filter text.
func (cl *ConversationList) Filter() string {
	return cl.filter
}

func (cl *ConversationList) render() {
	row, _ := cl.GetSelection()
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" TIME", 0},
		{" NEW", 0},
	}
	for col, h := range headers {
		cl.SetCell(0, col, tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp))
	}

	for i, c := range cl.contacts {
		name := c.Name
		if c.ID == cl.aiID {
			name += " ✦"
		}
		if c.ID == cl.activeID {
			name = "● " + name
		}
		badge := store.UnreadBadge(c.UnreadCount)

		r := i + 1
		cl.SetCell(r, 0, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(name))).SetExpansion(1).SetTextColor(cl.theme.FgColor))
		cl.SetCell(r, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(c.LastMessage))).SetExpansion(2).SetMaxWidth(48).SetTextColor(cl.theme.FgColor))
		cl.SetCell(r, 2, tview.NewTableCell(c.LastMessageTime).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
		cl.SetCell(r, 3, tview.NewTableCell(badge).SetTextColor(cl.theme.BadgeColor).SetAttributes(tcell.AttrBold).SetAlign(tview.AlignRight))
	}

	if cl.filter != "" {
		cl.SetTitle(fmt.Sprintf(" Chats (%d/%d) filter: %s ", len(cl.contacts), cl.total, tview.Escape(cl.filter)))
	} else {
		cl.SetTitle(fmt.Sprintf(" Chats (%d) ", cl.total))
	}

	if row < 1 {
		row = 1
	}
	if row > len(cl.contacts) {
		row = len(cl.contacts)
	}
	if row >= 1 {
		cl.Select(row, 0)
	}
}

// SelectedContact returns the id of the highlighted contact.
func (cl *ConversationList) SelectedContact() string {
	row, _ := cl.GetSelection()
	return cl.ContactByIndex(row)
}

// ContactByIndex returns the id of the Nth visible contact (1-based).
func (cl *ConversationList) ContactByIndex(n int) string {
	if n < 1 || n > len(cl.contacts) {
		return ""
	}
	return cl.contacts[n-1].ID
}
