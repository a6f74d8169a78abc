package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matheus3301/lmekki/internal/ai"
	"github.com/matheus3301/lmekki/internal/call"
	"github.com/matheus3301/lmekki/internal/media"
	"github.com/matheus3301/lmekki/internal/paths"
	"github.com/matheus3301/lmekki/internal/profile"
	"github.com/matheus3301/lmekki/internal/speech"
	"github.com/matheus3301/lmekki/internal/tui/views"
	"go.uber.org/zap"
)

const searchLimit = 100

func (a *App) executeCommand(cmd Command) {
	switch cmd.Name {
	case "q", "quit":
		a.app.Stop()
	case "h", "help":
		a.pushPage(pageHelp)
	case "chat":
		a.openByName(cmd.Args)
	case "search":
		a.pushPage(pageSearch)
		if cmd.Args != "" {
			a.search.SetQuery(cmd.Args)
			a.runSearch(cmd.Args)
		}
	case "call":
		a.startCall(a.currentContact())
	case "contact":
		a.showContact(a.currentContact())
	case "profile":
		a.showProfile()
	case "saveimg":
		a.saveImage(cmd.Args)
	case "voice":
		a.toggleVoice()
	case "":
	default:
		a.flash.Warn(fmt.Sprintf("unknown command: %s", cmd.Name))
	}
}

// currentContact is the open thread's contact, else the list selection.
func (a *App) currentContact() string {
	if a.pages.Contains(pageThread) && a.thread.ContactID() != "" {
		return a.thread.ContactID()
	}
	return a.list.SelectedContact()
}

func (a *App) openByName(name string) {
	if name == "" {
		a.flash.Warn("usage: :chat <name>")
		return
	}
	matches := a.deps.Directory.Filter(name)
	if len(matches) == 0 {
		a.flash.Warn(fmt.Sprintf("no contact matches %q", name))
		return
	}
	a.openChat(matches[0].ID)
}

func (a *App) runSearch(query string) {
	results := a.deps.Convs.SearchMessages(query, "", searchLimit)
	names := make(map[string]string)
	for _, c := range a.deps.Directory.List() {
		names[c.ID] = c.Name
	}
	a.search.Update(query, results, names)
	if len(results) > 0 {
		a.app.SetFocus(a.search.Results())
	}
}

func (a *App) showContact(id string) {
	c, ok := a.deps.Directory.Get(id)
	if !ok {
		a.flash.Warn("no contact selected")
		return
	}
	a.contact.Load(c, a.deps.Directory.IsAI(id))
	a.pushPage(pageContact)
}

func (a *App) saveContact(id, name, avatar string) {
	if err := a.deps.Directory.UpdateProfile(id, name, avatar); err != nil {
		a.flash.Err(err)
		return
	}
	a.flash.Info("Contact updated")
	a.goBack()
}

// captureContactPhoto grabs a still off the UI goroutine. Failure aborts
// only the capture; the form stays open with its previous avatar.
func (a *App) captureContactPhoto(id string) {
	a.flash.Info("Capturing photo...")
	go func() {
		url, err := media.CaptureStill(a.ctx, a.deps.Media)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.deps.Logger.Warn("photo capture failed", zap.String("contact", id), zap.Error(err))
				a.showAlert("Could not access the camera. Please check permissions.", nil)
				return
			}
			if a.contact.ContactID() != id {
				return
			}
			a.contact.SetCapturedAvatar(url)
			a.flash.Info("Photo captured")
		})
	}()
}

func (a *App) showProfile() {
	a.profile.Load(a.deps.Profile.Get())
	a.pushPage(pageProfile)
}

func (a *App) saveProfile(p profile.UserProfile) {
	if err := a.deps.Profile.Save(p); err != nil {
		a.flash.Err(err)
		return
	}
	a.profile.Load(a.deps.Profile.Get())
	a.refreshHeader()
	a.flash.Info("Profile saved")
}

// startCall opens a call with id. The assistant cannot be called.
func (a *App) startCall(id string) {
	c, ok := a.deps.Directory.Get(id)
	if !ok {
		a.flash.Warn("no contact selected")
		return
	}
	if a.deps.Directory.IsAI(id) {
		a.flash.Warn("Video calls are not available with the assistant")
		return
	}
	if a.call != nil && a.call.State() != call.Ended {
		a.flash.Warn("A call is already in progress")
		return
	}

	session := call.NewSession(id, a.deps.Media, a.deps.Bus, a.deps.Logger)
	a.call = session
	a.pushPage(pageCall)
	a.refreshCall()

	go func() {
		if err := session.Start(a.ctx); err != nil {
			a.app.QueueUpdateDraw(func() { a.callFailed(session, err) })
		}
	}()
	a.deps.Logger.Info("call started", zap.String("contact", c.ID))
}

// callFailed tells the user and closes the call page once acknowledged.
func (a *App) callFailed(session *call.Session, err error) {
	a.deps.Logger.Warn("call failed", zap.String("contact", session.ContactID()), zap.Error(err))
	a.showAlert("Could not access camera and microphone. Please check permissions.", func() {
		if a.call == session && a.pages.Current() == pageCall {
			a.goBack()
		}
	})
}

func (a *App) refreshCall() {
	s := a.call
	if s == nil {
		return
	}
	name := s.ContactID()
	if c, ok := a.deps.Directory.Get(name); ok {
		name = c.Name
	}
	if s.State() == call.Ended {
		a.crumbs.SetCall("")
	} else {
		a.crumbs.SetCall(name + " " + call.FormatDuration(s.Duration()))
	}
	a.callView.Update(views.CallStatus{
		ContactName: name,
		State:       s.State(),
		Duration:    call.FormatDuration(s.Duration()),
		Muted:       s.Muted(),
		CameraOff:   s.CameraOff(),
		Settings:    s.Settings(),
		Tracks:      s.Tracks(),
	})
}

func (a *App) refreshPreview() {
	if a.call == nil {
		return
	}
	img, err := a.call.Frame()
	if err != nil {
		img = nil
	}
	a.callView.SetFrame(img, a.call.CameraOff())
}

func (a *App) toggleMute() {
	if a.call == nil {
		return
	}
	if _, err := a.call.ToggleMute(); err != nil {
		a.flash.Err(err)
	}
	a.refreshCall()
}

func (a *App) toggleCamera() {
	if a.call == nil {
		return
	}
	if _, err := a.call.ToggleCamera(); err != nil {
		a.flash.Err(err)
	}
	a.refreshCall()
	a.refreshPreview()
}

// cycleResolution steps through the resolutions, wrapping after the highest.
func (a *App) cycleResolution() {
	if a.call == nil {
		return
	}
	set := a.call.Settings()
	i := slices.Index(call.Resolutions, set.Resolution)
	set.Resolution = call.Resolutions[(i+1)%len(call.Resolutions)]
	a.applyQuality(set)
}

func (a *App) toggleFrameRate() {
	if a.call == nil {
		return
	}
	set := a.call.Settings()
	i := slices.Index(call.FrameRates, set.FrameRate)
	set.FrameRate = call.FrameRates[(i+1)%len(call.FrameRates)]
	a.applyQuality(set)
}

func (a *App) applyQuality(set call.Settings) {
	session := a.call
	go func() {
		err := session.SetQuality(a.ctx, set)
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				if !errors.Is(err, call.ErrEnded) {
					a.callFailed(session, err)
				}
				return
			}
			a.flash.Info(fmt.Sprintf("Quality set to %s @ %dfps", set.Resolution, set.FrameRate))
			a.refreshCall()
		})
	}()
}

// saveImage writes the newest generated image in the current thread to disk.
func (a *App) saveImage(target string) {
	id := a.currentContact()
	conv := a.deps.Convs.GetConversation(id)
	var ref string
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].ImageRef != "" {
			ref = conv.Messages[i].ImageRef
			break
		}
	}
	if ref == "" {
		a.flash.Warn("no image in this conversation")
		return
	}

	img, err := ai.ParseDataURL(ref)
	if err != nil {
		a.flash.Err(err)
		return
	}
	if target == "" {
		target = filepath.Join(paths.ImageDir(), fmt.Sprintf("%s-%d.png", id, len(conv.Messages)))
	}
	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		a.flash.Err(err)
		return
	}
	if err := os.WriteFile(target, img.Data, 0600); err != nil {
		a.flash.Err(err)
		return
	}
	a.flash.Info("Saved image to " + target)
}

// toggleVoice starts or stops dictation into the composer.
func (a *App) toggleVoice() {
	rec := a.deps.Speech
	if rec == nil {
		a.flash.Warn("Voice input is not supported in this terminal")
		return
	}
	if a.voice {
		rec.Stop()
		return
	}
	if !a.pages.Contains(pageThread) {
		a.flash.Warn("open a conversation first")
		return
	}

	events, err := rec.Start(a.ctx, speech.Locale)
	if err != nil {
		a.flash.Err(err)
		return
	}
	a.voice = true
	a.flash.Info("Listening...")

	base := a.thread.Composer().GetText()
	go func() {
		dictate(events, base,
			func(text string) {
				a.app.QueueUpdateDraw(func() { a.thread.Composer().SetText(text) })
			},
			func(msg string) {
				a.app.QueueUpdateDraw(func() { a.showAlert(msg, nil) })
			},
		)
		a.app.QueueUpdateDraw(func() {
			a.voice = false
			a.flash.Clear()
		})
	}()
}

// dictate folds recognizer events into composer text appended to base until
// the channel closes. Error events raise an alert unless they are silent.
func dictate(events <-chan speech.Event, base string, setText, alert func(string)) {
	base = strings.TrimSpace(base)
	var tr speech.Transcript
	for e := range events {
		if e.Kind == speech.Error {
			if msg, ok := speech.AlertFor(e.Code); ok {
				alert(msg)
			}
			continue
		}
		setText(strings.TrimSpace(base + " " + tr.Apply(e)))
	}
}
