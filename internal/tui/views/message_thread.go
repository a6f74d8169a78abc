package views

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/lmekki/internal/store"
	"github.com/matheus3301/lmekki/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays one contact's messages and a composer.
type MessageThread struct {
	*tview.Flex
	theme     *ui.Theme
	messages  *tview.TextView
	composer  *tview.InputField
	contactID string
	name      string
	isAI      bool
	onSend    func(text string)
	rendered  string
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		composer: composer,
	}
	mt.setComposerTitle()

	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && mt.onSend != nil {
			text := composer.GetText()
			if text != "" {
				mt.onSend(text)
				composer.SetText("")
			}
		}
	})

	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.name != "" {
		return mt.name
	}
	return "Messages"
}

// Init implements Component.
func (mt *MessageThread) Init() {}

// Start implements Component.
func (mt *MessageThread) Start() {}

// Stop implements Component.
func (mt *MessageThread) Stop() {}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	hints := []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "d", Description: "Contact"},
	}
	if !mt.isAI {
		hints = append(hints, ui.MenuHint{Key: "c", Description: "Video call"})
	}
	return append(hints,
		ui.MenuHint{Key: "Esc", Description: "Back"},
		ui.MenuHint{Key: ":", Description: "Command"},
		ui.MenuHint{Key: "?", Description: "Help"},
	)
}

// SetContact switches the thread header to a contact.
func (mt *MessageThread) SetContact(id, name string, isAI bool) {
	mt.contactID = id
	mt.name = name
	mt.isAI = isAI
	mt.rendered = ""
	mt.messages.Clear()
	mt.messages.SetTitle(fmt.Sprintf(" %s ", tview.Escape(name)))
	mt.setComposerTitle()
}

func (mt *MessageThread) setComposerTitle() {
	if mt.isAI {
		mt.composer.SetTitle(" Compose (i to focus, /imagine <prompt> for images) ")
	} else {
		mt.composer.SetTitle(" Compose (i to focus) ")
	}
}

// ContactID returns the contact shown in the thread.
func (mt *MessageThread) ContactID() string {
	return mt.contactID
}

// SetOnSend sets the callback when a message is submitted.
func (mt *MessageThread) SetOnSend(fn func(text string)) {
	mt.onSend = fn
}

// Update re-renders the conversation.
func (mt *MessageThread) Update(conv store.Conversation) {
	text := RenderThread(mt.theme, mt.name, conv)
	if text == mt.rendered {
		return
	}
	mt.rendered = text
	mt.messages.Clear()
	_, _ = fmt.Fprint(mt.messages, text)
	mt.messages.ScrollToEnd()
}

// RenderThread formats a conversation as tview markup, oldest first.
func RenderThread(theme *ui.Theme, contactName string, conv store.Conversation) string {
	var out strings.Builder
	for _, m := range conv.Messages {
		sender, color := contactName, ui.ColorTag(theme.AIMsgColor)
		if m.Sender == store.SenderUser {
			sender, color = "You", ui.ColorTag(theme.UserMsgColor)
		}
		body := tview.Escape(sanitizeForTerminal(m.Text))
		if m.ImageRef != "" {
			body = fmt.Sprintf("[::b]🖼  image:[-:-:-] %s [::d](:saveimg to export)[-:-:-]", body)
		}
		fmt.Fprintf(&out, "[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n",
			color, tview.Escape(sanitizeForTerminal(sender)), m.Timestamp, body)
	}
	if conv.IsTyping {
		fmt.Fprintf(&out, "[%s::i]%s is typing...[-:-:-]\n", ui.ColorTag(theme.TypingColor), tview.Escape(contactName))
	}
	return out.String()
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
