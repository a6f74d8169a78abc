package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/lmekki/internal/store"
	"github.com/matheus3301/lmekki/internal/tui/ui"
	"github.com/rivo/tview"
)

// ContactProfile shows a contact's details and edits its name and photo.
type ContactProfile struct {
	*tview.Flex
	theme     *ui.Theme
	details   *tview.TextView
	form      *tview.Form
	contactID string
	avatar    string
	current   store.Contact
	isAI      bool
	onSave    func(id, name, avatar string)
	onCapture func(id string)
	onCancel  func()
}

// NewContactProfile creates the contact profile page.
func NewContactProfile(theme *ui.Theme) *ContactProfile {
	details := tview.NewTextView().
		SetDynamicColors(true)
	details.SetBorder(true)
	details.SetBorderColor(theme.BorderColor)
	details.SetBackgroundColor(theme.BgColor)
	details.SetTextColor(theme.FgColor)
	details.SetTitle(" Contact ")
	details.SetTitleColor(theme.TitleColor)

	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.BgColor)
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(theme.TableCursorBg)
	form.SetButtonTextColor(theme.TableCursorFg)
	form.SetTitle(" Edit ")
	form.SetTitleColor(theme.TitleColor)

	cp := &ContactProfile{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		theme:   theme,
		details: details,
		form:    form,
	}
	cp.AddItem(details, 8, 0, false).
		AddItem(form, 0, 1, true)

	form.AddInputField("Name", "", 40, nil, nil)
	form.AddButton("Save", func() {
		if cp.onSave != nil {
			name := form.GetFormItemByLabel("Name").(*tview.InputField).GetText()
			cp.onSave(cp.contactID, name, cp.avatar)
		}
	})
	form.AddButton("Take photo", func() {
		if cp.onCapture != nil {
			cp.onCapture(cp.contactID)
		}
	})
	form.AddButton("Cancel", func() {
		if cp.onCancel != nil {
			cp.onCancel()
		}
	})
	form.SetCancelFunc(func() {
		if cp.onCancel != nil {
			cp.onCancel()
		}
	})

	return cp
}

// Name implements Component.
func (cp *ContactProfile) Name() string { return "Contact" }

// Init implements Component.
func (cp *ContactProfile) Init() {}

// Start implements Component.
func (cp *ContactProfile) Start() {}

// Stop implements Component.
func (cp *ContactProfile) Stop() {}

// Hints implements Component.
func (cp *ContactProfile) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Press button"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetCallbacks wires the form buttons.
func (cp *ContactProfile) SetCallbacks(onSave func(id, name, avatar string), onCapture func(id string), onCancel func()) {
	cp.onSave = onSave
	cp.onCapture = onCapture
	cp.onCancel = onCancel
}

// Load shows c and resets the form to its values.
func (cp *ContactProfile) Load(c store.Contact, isAI bool) {
	cp.contactID = c.ID
	cp.avatar = c.Avatar
	cp.current = c
	cp.isAI = isAI
	cp.form.GetFormItemByLabel("Name").(*tview.InputField).SetText(c.Name)
	cp.render(c, isAI)
}

// SetCapturedAvatar stages a captured photo until Save.
func (cp *ContactProfile) SetCapturedAvatar(dataURL string) {
	cp.avatar = dataURL
	c := cp.current
	c.Avatar = dataURL
	cp.render(c, cp.isAI)
}

// ContactID returns the contact being edited.
func (cp *ContactProfile) ContactID() string {
	return cp.contactID
}

// Form returns the edit form (for focus management).
func (cp *ContactProfile) Form() *tview.Form {
	return cp.form
}

func (cp *ContactProfile) render(c store.Contact, isAI bool) {
	cp.details.Clear()
	fg := ui.ColorTag(cp.theme.FgColor)
	ct := ui.ColorTag(cp.theme.CounterColor)

	kind := "Contact"
	if isAI {
		kind = "AI assistant"
	}
	last := c.LastMessage
	if last == "" {
		last = "-"
	}
	_, _ = fmt.Fprintf(cp.details,
		"\n [%s::b]Name:[-:-:-]    [%s]%s[-]\n"+
			" [%s::b]ID:[-:-:-]      [%s]%s[-]\n"+
			" [%s::b]Type:[-:-:-]    [%s]%s[-]\n"+
			" [%s::b]Photo:[-:-:-]   [%s]%s[-]\n"+
			" [%s::b]Last:[-:-:-]    [%s]%s[-]",
		fg, ct, tview.Escape(c.Name),
		fg, ct, c.ID,
		fg, ct, kind,
		fg, ct, tview.Escape(DescribeAvatar(c.Avatar)),
		fg, ct, tview.Escape(sanitizeForTerminal(last)),
	)
	cp.details.SetTitle(fmt.Sprintf(" %s ", tview.Escape(c.Name)))
}

// DescribeAvatar summarises an avatar reference for display.
func DescribeAvatar(ref string) string {
	switch {
	case ref == "":
		return "none"
	case strings.HasPrefix(ref, "data:"):
		return fmt.Sprintf("captured photo (%d bytes encoded)", len(ref))
	default:
		return ref
	}
}
