package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/lmekki/internal/ai"
	"github.com/matheus3301/lmekki/internal/bus"
	"github.com/matheus3301/lmekki/internal/call"
	"github.com/matheus3301/lmekki/internal/chat"
	"github.com/matheus3301/lmekki/internal/media"
	"github.com/matheus3301/lmekki/internal/notify"
	"github.com/matheus3301/lmekki/internal/profile"
	"github.com/matheus3301/lmekki/internal/speech"
	"github.com/matheus3301/lmekki/internal/store"
	"github.com/matheus3301/lmekki/internal/tui/keys"
	"github.com/matheus3301/lmekki/internal/tui/ui"
	"github.com/matheus3301/lmekki/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Page names.
const (
	pageChats   = "chats"
	pageThread  = "thread"
	pageSearch  = "search"
	pageContact = "contact"
	pageProfile = "profile"
	pageCall    = "call"
	pageHelp    = "help"
	pageAlert   = "alert"
)

// Deps are the client components the TUI drives.
type Deps struct {
	Directory *store.Directory
	Convs     *store.Conversations
	Chat      *chat.Service
	AI        *ai.Adapter
	Presenter *notify.Presenter
	Media     media.Provider
	Speech    speech.Recognizer
	Profile   *profile.Holder
	Bus       *bus.Bus
	Logger    *zap.Logger
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	root     *tview.Pages
	body     *tview.Flex
	theme    *ui.Theme
	pages    *ui.Pages
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	info     *ui.ProfileInfo
	logo     *ui.Logo
	prompt   *ui.Prompt
	flash    *ui.FlashModel
	flashBar *ui.FlashBar
	toastBar *ui.ToastBar
	registry *keys.Registry

	list      *views.ConversationList
	thread    *views.MessageThread
	search    *views.SearchView
	contact   *views.ContactProfile
	profile   *views.ProfileView
	callView  *views.CallView
	help      *views.HelpView
	component map[string]ui.Component

	deps    Deps
	call    *call.Session
	voice   bool
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(d Deps) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:      tview.NewApplication(),
		root:     tview.NewPages(),
		theme:    theme,
		pages:    ui.NewPages(),
		crumbs:   ui.NewCrumbs(theme),
		menu:     ui.NewMenu(theme),
		info:     ui.NewProfileInfo(theme),
		logo:     ui.NewLogo(theme),
		prompt:   ui.NewPrompt(theme),
		flash:    ui.NewFlashModel(),
		flashBar: ui.NewFlashBar(theme),
		toastBar: ui.NewToastBar(theme),
		registry: keys.NewRegistry(),
		list:     views.NewConversationList(theme),
		thread:   views.NewMessageThread(theme),
		search:   views.NewSearchView(theme),
		contact:  views.NewContactProfile(theme),
		profile:  views.NewProfileView(theme),
		callView: views.NewCallView(theme),
		help:     views.NewHelpView(theme),
		deps:     d,
		started:  time.Now(),
		ctx:      ctx,
		cancel:   cancel,
	}
	a.component = map[string]ui.Component{
		pageChats:   a.list,
		pageThread:  a.thread,
		pageSearch:  a.search,
		pageContact: a.contact,
		pageProfile: a.profile,
		pageCall:    a.callView,
		pageHelp:    a.help,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "?:help", Visible: true,
		Handler: func() { a.pushPage(pageHelp) },
	})
	a.registry.AddGlobal("profile", &keys.Action{
		Rune: 'p', Key: tcell.KeyRune,
		Description: "p:profile", Visible: true,
		Handler: a.showProfile,
	})
	a.registry.AddGlobal("dismiss", &keys.Action{
		Rune: 'x', Key: tcell.KeyRune,
		Description: "x:dismiss", Visible: false,
		Handler: func() { a.deps.Presenter.Dismiss() },
	})
	a.registry.AddGlobal("quit", &keys.Action{
		Rune: 'q', Key: tcell.KeyRune,
		Description: "q:quit", Visible: true,
		Handler: func() {
			if a.pages.Depth() <= 1 {
				a.app.Stop()
				return
			}
			a.goBack()
		},
	})

	for n := 1; n <= 9; n++ {
		a.registry.AddView(pageChats, "jump"+string(rune('0'+n)), &keys.Action{
			Rune: rune('0' + n), Key: tcell.KeyRune,
			Handler: func() {
				if id := a.list.ContactByIndex(n); id != "" {
					a.openChat(id)
				}
			},
		})
	}

	a.registry.AddView(pageThread, "compose", &keys.Action{
		Rune: 'i', Key: tcell.KeyRune,
		Handler: func() { a.app.SetFocus(a.thread.Composer()) },
	})
	a.registry.AddView(pageThread, "contact", &keys.Action{
		Rune: 'd', Key: tcell.KeyRune,
		Handler: func() { a.showContact(a.thread.ContactID()) },
	})
	a.registry.AddView(pageThread, "call", &keys.Action{
		Rune: 'c', Key: tcell.KeyRune,
		Handler: func() { a.startCall(a.thread.ContactID()) },
	})

	a.registry.AddView(pageCall, "mute", &keys.Action{Rune: 'm', Key: tcell.KeyRune, Handler: a.toggleMute})
	a.registry.AddView(pageCall, "camera", &keys.Action{Rune: 'v', Key: tcell.KeyRune, Handler: a.toggleCamera})
	a.registry.AddView(pageCall, "resolution", &keys.Action{Rune: 'r', Key: tcell.KeyRune, Handler: a.cycleResolution})
	a.registry.AddView(pageCall, "fps", &keys.Action{Rune: 'f', Key: tcell.KeyRune, Handler: a.toggleFrameRate})
	a.registry.AddView(pageCall, "end", &keys.Action{Rune: 'e', Key: tcell.KeyRune, Handler: a.goBack})
}

func (a *App) setupCallbacks() {
	a.list.SetSelectedFunc(func(row, _ int) {
		if id := a.list.ContactByIndex(row); id != "" {
			a.openChat(id)
		}
	})

	a.thread.SetOnSend(func(text string) {
		if err := a.deps.Chat.Send(a.ctx, a.thread.ContactID(), text); err != nil {
			a.flash.Err(err)
		}
	})

	a.search.SetOnQuery(a.runSearch)
	a.search.Results().SetSelectedFunc(func(_, _ int) {
		if id, _ := a.search.SelectedResult(); id != "" {
			a.openChat(id)
		}
	})

	a.contact.SetCallbacks(a.saveContact, a.captureContactPhoto, a.goBack)
	a.profile.SetCallbacks(a.saveProfile, a.goBack)

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.executeCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.list.SetFilter(text)
			a.refreshList()
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.list.SetFilter("")
			a.refreshList()
		}
		a.hidePrompt()
	})

	a.pages.SetOnChange(func(stack []string) {
		names := make([]string, len(stack))
		for i, p := range stack {
			names[i] = a.component[p].Name()
		}
		a.crumbs.Update(names)
		if c, ok := a.component[a.pages.Current()]; ok {
			a.menu.Update(c.Hints())
		}
	})
}

func (a *App) setupLayout() {
	for name, c := range a.component {
		a.pages.AddPage(name, c, true, false)
	}

	header := tview.NewFlex().
		AddItem(a.info, 0, 2, false).
		AddItem(a.menu, 0, 2, false).
		AddItem(a.logo, 22, 0, false)

	a.body = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.toastBar, 1, 0, false)

	a.root.AddPage("main", a.body, true, true)
	a.app.SetRoot(a.root, true)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if front, _ := a.root.GetFrontPage(); front == pageAlert {
			return event
		}
		if a.app.GetFocus() == a.prompt.InputField {
			return event
		}

		current := a.pages.Current()
		focused := a.app.GetFocus()

		if event.Key() == tcell.KeyEscape {
			switch {
			case focused == a.thread.Composer():
				a.app.SetFocus(a.thread.Messages())
				return nil
			case focused == a.search.Input():
				a.goBack()
				return nil
			}
		}

		// Text widgets get every other key.
		switch focused.(type) {
		case *tview.InputField, *tview.Button:
			return event
		}
		if current == pageContact || current == pageProfile {
			return event
		}

		switch {
		case event.Key() == tcell.KeyEscape:
			a.goBack()
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == ':':
			a.showPrompt(ui.PromptCommand)
			return nil
		case event.Key() == tcell.KeyRune && event.Rune() == '/':
			if current != pageChats {
				a.pages.Reset(pageChats)
				a.app.SetFocus(a.list)
			}
			a.showPrompt(ui.PromptFilter)
			return nil
		}

		if a.registry.HandleEvent(current, event) {
			return nil
		}
		return event
	})
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	a.refreshList()
	a.refreshHeader()
	a.pages.Reset(pageChats)
	a.app.SetFocus(a.list)

	go a.watchBus()
	go a.watchFlash()
	go a.refreshLoop()

	return a.app.Run()
}

// Stop shuts the TUI down and ends any live call.
func (a *App) Stop() {
	a.cancel()
	if a.call != nil {
		a.call.End()
	}
	if a.voice && a.deps.Speech != nil {
		a.deps.Speech.Stop()
	}
	a.app.Stop()
}

func (a *App) watchBus() {
	ch, unsub := a.deps.Bus.Subscribe("", 256)
	defer unsub()
	for {
		select {
		case evt := <-ch:
			a.app.QueueUpdateDraw(func() { a.handleEvent(evt) })
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) watchFlash() {
	for {
		select {
		case <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.GetMessage()) })
		case <-a.ctx.Done():
			return
		}
	}
}

// refreshLoop expires flash messages, ages the header and animates the call preview.
func (a *App) refreshLoop() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	n := 0
	for {
		select {
		case <-ticker.C:
			n++
			slow := n%4 == 0
			a.app.QueueUpdateDraw(func() {
				if a.pages.Current() == pageCall {
					a.refreshPreview()
				}
				if slow {
					a.flashBar.Update(a.flash.GetMessage())
					a.refreshHeader()
					a.resync()
				}
			})
		case <-a.ctx.Done():
			return
		}
	}
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.ConversationAppended, bus.ConversationUpdated:
		if ref, ok := evt.Payload.(bus.MessageRef); ok {
			a.refreshThreadFor(ref.ContactID)
		}
		a.refreshHeader()
	case bus.ConversationTyping:
		if id, ok := evt.Payload.(string); ok {
			a.refreshThreadFor(id)
		}
	case bus.DirectoryChanged:
		a.refreshList()
		if id, ok := evt.Payload.(string); ok && id == a.thread.ContactID() {
			if c, ok := a.deps.Directory.Get(id); ok {
				a.thread.SetContact(c.ID, c.Name, a.deps.Directory.IsAI(c.ID))
				a.refreshThreadFor(id)
			}
		}
	case bus.NotifyShown:
		if t, ok := evt.Payload.(notify.Toast); ok {
			a.toastBar.Show(t.ContactName, t.Message)
		}
	case bus.NotifyDismissed:
		a.toastBar.Show("", "")
	case bus.CallStateChanged, bus.CallTick:
		a.refreshCall()
	}
}

// resync redraws the list and open thread from the stores. The bus drops
// events for a full subscriber, so the refresh loop calls this as a backstop.
func (a *App) resync() {
	a.refreshList()
	if a.pages.Contains(pageThread) {
		a.refreshThreadFor(a.thread.ContactID())
	}
}

func (a *App) refreshList() {
	d := a.deps.Directory
	all := d.List()
	a.list.Update(d.Filter(a.list.Filter()), len(all), d.AIContactID(), d.Active())
}

func (a *App) refreshThreadFor(contactID string) {
	if contactID == a.thread.ContactID() {
		a.thread.Update(a.deps.Convs.GetConversation(contactID))
	}
}

func (a *App) refreshHeader() {
	p := a.deps.Profile.Get()
	a.info.Update(&ui.HeaderData{
		Name:         p.Name,
		Status:       p.Status,
		AIReady:      a.deps.AI.Available(),
		Contacts:     len(a.deps.Directory.List()),
		MessageCount: a.deps.Convs.MessageCount(),
		Uptime:       time.Since(a.started),
	})
}

func (a *App) pushPage(name string) {
	if a.pages.Current() == name {
		return
	}
	a.pages.Push(name)
	a.focusPage(name)
}

func (a *App) focusPage(name string) {
	switch name {
	case pageChats:
		a.app.SetFocus(a.list)
	case pageThread:
		a.app.SetFocus(a.thread.Messages())
	case pageSearch:
		a.app.SetFocus(a.search.Input())
	case pageContact:
		a.app.SetFocus(a.contact.Form())
	case pageProfile:
		a.app.SetFocus(a.profile.Form())
	case pageCall:
		a.app.SetFocus(a.callView)
	case pageHelp:
		a.app.SetFocus(a.help)
	}
}

// goBack pops the current page. Leaving the call page ends the call.
func (a *App) goBack() {
	if a.pages.Depth() <= 1 {
		return
	}
	if a.pages.Current() == pageCall && a.call != nil {
		a.call.End()
	}
	a.pages.Pop()
	a.focusPage(a.pages.Current())
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	if mode == ui.PromptFilter {
		a.prompt.SetText(a.list.Filter())
	}
	a.body.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt.InputField)
}

func (a *App) hidePrompt() {
	a.body.ResizeItem(a.prompt, 0, 0)
	a.focusPage(a.pages.Current())
}

// showAlert displays a blocking modal; done runs after it is dismissed.
func (a *App) showAlert(msg string, done func()) {
	modal := tview.NewModal().
		SetText(msg).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			a.root.RemovePage(pageAlert)
			if done != nil {
				done()
			}
			a.focusPage(a.pages.Current())
		})
	a.root.AddPage(pageAlert, modal, false, true)
	a.app.SetFocus(modal)
}

func (a *App) openChat(id string) {
	c, ok := a.deps.Directory.Get(id)
	if !ok {
		return
	}
	if err := a.deps.Chat.Select(id); err != nil {
		a.flash.Err(err)
		return
	}
	a.thread.SetContact(c.ID, c.Name, a.deps.Directory.IsAI(c.ID))
	a.thread.Update(a.deps.Convs.GetConversation(id))
	a.pages.Reset(pageChats)
	a.pushPage(pageThread)
	a.refreshList()
}
