package tui

import (
	"testing"

	"github.com/matheus3301/lmekki/internal/chat"
	"github.com/matheus3301/lmekki/internal/ids"
	"github.com/matheus3301/lmekki/internal/media"
	"github.com/matheus3301/lmekki/internal/notify"
	"github.com/matheus3301/lmekki/internal/profile"
	"github.com/matheus3301/lmekki/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*App, *store.Conversations) {
	t.Helper()
	// No bus: nothing reaches the UI except through resync.
	dir := store.NewDirectory([]store.Contact{
		{ID: "gemini-1", Name: "Assistant"},
		{ID: "user-2", Name: "Ali"},
	}, "gemini-1", nil)
	convs := store.NewConversations(nil)
	presenter := notify.NewPresenter(0, nil)
	t.Cleanup(presenter.Stop)

	a := NewApp(Deps{
		Directory: dir,
		Convs:     convs,
		Chat:      chat.NewService(dir, convs, nil, zap.NewNop()),
		Presenter: presenter,
		Media:     media.NewLoopback(),
		Profile:   profile.NewHolder(profile.UserProfile{Name: "Me"}),
		Logger:    zap.NewNop(),
	})
	t.Cleanup(a.cancel)
	return a, convs
}

func TestResyncClearsStaleTyping(t *testing.T) {
	a, convs := newTestApp(t)
	a.openChat("user-2")
	require.Equal(t, pageThread, a.pages.Current())

	convs.SetTyping("user-2", true)
	a.resync()
	assert.Contains(t, a.thread.Messages().GetText(true), "Ali is typing...")

	convs.AppendMessage("user-2", store.Message{ID: ids.NewMessageID(), Text: "done", Sender: store.SenderAI})
	convs.SetTyping("user-2", false)
	a.resync()

	text := a.thread.Messages().GetText(true)
	assert.NotContains(t, text, "is typing")
	assert.Contains(t, text, "done")
}

func TestResyncWithoutOpenThread(t *testing.T) {
	a, convs := newTestApp(t)
	a.pages.Reset(pageChats)
	convs.SetTyping("user-2", true)
	a.resync()
	assert.Empty(t, a.thread.Messages().GetText(true))
	assert.Equal(t, pageChats, a.pages.Current())
}
