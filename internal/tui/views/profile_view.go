package views

import (
	"fmt"

	"github.com/matheus3301/lmekki/internal/profile"
	"github.com/matheus3301/lmekki/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProfileView edits the user's profile and shows it as a QR card.
type ProfileView struct {
	*tview.Flex
	theme  *ui.Theme
	form   *tview.Form
	card   *tview.TextView
	onSave func(p profile.UserProfile)
	onBack func()
}

// NewProfileView creates the profile page.
func NewProfileView(theme *ui.Theme) *ProfileView {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetBorderColor(theme.BorderColor)
	form.SetBackgroundColor(theme.BgColor)
	form.SetFieldBackgroundColor(theme.BgColor)
	form.SetFieldTextColor(theme.FgColor)
	form.SetLabelColor(theme.MenuKeyColor)
	form.SetButtonBackgroundColor(theme.TableCursorBg)
	form.SetButtonTextColor(theme.TableCursorFg)
	form.SetTitle(" My profile ")
	form.SetTitleColor(theme.TitleColor)

	card := tview.NewTextView().
		SetDynamicColors(false).
		SetTextAlign(tview.AlignCenter)
	card.SetBorder(true)
	card.SetBorderColor(theme.BorderColor)
	card.SetBackgroundColor(theme.BgColor)
	card.SetTextColor(tview.Styles.PrimaryTextColor)
	card.SetTitle(" Profile card ")
	card.SetTitleColor(theme.TitleColor)

	pv := &ProfileView{
		Flex:  tview.NewFlex(),
		theme: theme,
		form:  form,
		card:  card,
	}
	pv.AddItem(form, 0, 1, true).
		AddItem(card, 0, 1, false)

	form.AddInputField("Name", "", 32, nil, nil)
	form.AddInputField("Status", "", 32, nil, nil)
	form.AddInputField("Avatar", "", 48, nil, nil)
	form.AddButton("Save", func() {
		if pv.onSave != nil {
			pv.onSave(pv.value())
		}
	})
	form.AddButton("Back", func() {
		if pv.onBack != nil {
			pv.onBack()
		}
	})
	form.SetCancelFunc(func() {
		if pv.onBack != nil {
			pv.onBack()
		}
	})

	return pv
}

// Name implements Component.
func (pv *ProfileView) Name() string { return "Profile" }

// Init implements Component.
func (pv *ProfileView) Init() {}

// Start implements Component.
func (pv *ProfileView) Start() {}

// Stop implements Component.
func (pv *ProfileView) Stop() {}

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Press button"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetCallbacks wires the form buttons.
func (pv *ProfileView) SetCallbacks(onSave func(p profile.UserProfile), onBack func()) {
	pv.onSave = onSave
	pv.onBack = onBack
}

// Load fills the form and redraws the QR card for p.
func (pv *ProfileView) Load(p profile.UserProfile) {
	pv.field("Name").SetText(p.Name)
	pv.field("Status").SetText(p.Status)
	pv.field("Avatar").SetText(p.Avatar)
	pv.renderCard(p)
}

// Form returns the edit form (for focus management).
func (pv *ProfileView) Form() *tview.Form {
	return pv.form
}

func (pv *ProfileView) field(label string) *tview.InputField {
	return pv.form.GetFormItemByLabel(label).(*tview.InputField)
}

func (pv *ProfileView) value() profile.UserProfile {
	return profile.UserProfile{
		Name:   pv.field("Name").GetText(),
		Status: pv.field("Status").GetText(),
		Avatar: pv.field("Avatar").GetText(),
	}
}

func (pv *ProfileView) renderCard(p profile.UserProfile) {
	pv.card.Clear()
	qr, err := p.QRCard()
	if err != nil {
		_, _ = fmt.Fprintf(pv.card, "\n  (QR generation failed: %s)", err)
		return
	}
	_, _ = fmt.Fprintf(pv.card, "\n%s\n%s\n%s", qr, p.Name, p.Status)
}
