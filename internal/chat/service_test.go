package chat

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/lmekki/internal/ai"
	"github.com/matheus3301/lmekki/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const aiID = "gemini-1"

type fakeChat struct {
	chunks []string
	err    error
	gate   chan struct{}
	after  func()
}

func (f *fakeChat) SendMessageStream(context.Context, string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if f.gate != nil {
			<-f.gate
		}
		for _, c := range f.chunks {
			if !yield(c, nil) {
				return
			}
			if f.after != nil {
				f.after()
			}
		}
		if f.err != nil {
			yield("", f.err)
		}
	}
}

// queuedChat hands each exchange the next gate and replies "re:<text>".
type queuedChat struct {
	mu    sync.Mutex
	gates []chan struct{}
}

func (q *queuedChat) SendMessageStream(_ context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		q.mu.Lock()
		gate := q.gates[0]
		q.gates = q.gates[1:]
		q.mu.Unlock()
		<-gate
		yield("re:"+text, nil)
	}
}

type fakeImages struct {
	prompts []string
	img     *ai.Image
	err     error
}

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) (*ai.Image, error) {
	f.prompts = append(f.prompts, prompt)
	return f.img, f.err
}

func newTestService(adapter *ai.Adapter) (*Service, *store.Directory, *store.Conversations) {
	dir := store.NewDirectory([]store.Contact{
		{ID: aiID, Name: "Lmekki Assistant"},
		{ID: "user-2", Name: "Ali"},
	}, aiID, nil)
	convs := store.NewConversations(nil)
	return NewService(dir, convs, adapter, zap.NewNop()), dir, convs
}

func TestSendStreamsCumulativeText(t *testing.T) {
	chat := &fakeChat{chunks: []string{"a", "b", "c"}}
	svc, dir, convs := newTestService(ai.NewAdapter(chat, nil, zap.NewNop()))

	var seen []string
	chat.after = func() {
		msgs := convs.GetConversation(aiID).Messages
		seen = append(seen, msgs[len(msgs)-1].Text)
	}

	require.NoError(t, svc.Send(context.Background(), aiID, "hello"))
	svc.Wait()

	assert.Equal(t, []string{"a", "ab", "abc"}, seen)

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, store.SenderUser, conv.Messages[0].Sender)
	assert.Equal(t, "hello", conv.Messages[0].Text)
	assert.Equal(t, store.SenderAI, conv.Messages[1].Sender)
	assert.Equal(t, "abc", conv.Messages[1].Text)
	assert.False(t, conv.IsTyping)

	c, _ := dir.Get(aiID)
	assert.Equal(t, "abc...", c.LastMessage)
}

func TestTypingSetDuringStream(t *testing.T) {
	chat := &fakeChat{chunks: []string{"hi"}, gate: make(chan struct{})}
	svc, _, convs := newTestService(ai.NewAdapter(chat, nil, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), aiID, "hello"))

	conv := convs.GetConversation(aiID)
	assert.True(t, conv.IsTyping)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "", conv.Messages[1].Text, "placeholder starts empty")

	close(chat.gate)
	svc.Wait()
	assert.False(t, convs.GetConversation(aiID).IsTyping)
}

func TestReplyLandsOnOriginalContact(t *testing.T) {
	chat := &fakeChat{chunks: []string{"still ", "here"}, gate: make(chan struct{})}
	svc, dir, convs := newTestService(ai.NewAdapter(chat, nil, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), aiID, "hello"))
	require.NoError(t, svc.Select("user-2"))
	assert.Equal(t, "user-2", dir.Active())

	close(chat.gate)
	svc.Wait()

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "still here", conv.Messages[1].Text)
	assert.False(t, conv.IsTyping)
	assert.Empty(t, convs.GetConversation("user-2").Messages)
}

func TestOverlappingRepliesKeepTypingUntilLast(t *testing.T) {
	chat := &queuedChat{gates: []chan struct{}{make(chan struct{}), make(chan struct{})}}
	first, second := chat.gates[0], chat.gates[1]
	svc, _, convs := newTestService(ai.NewAdapter(chat, nil, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), aiID, "one"))
	require.NoError(t, svc.Send(context.Background(), aiID, "two"))
	assert.True(t, convs.GetConversation(aiID).IsTyping)

	filled := func() int {
		n := 0
		for _, m := range convs.GetConversation(aiID).Messages {
			if strings.HasPrefix(m.Text, "re:") {
				n++
			}
		}
		return n
	}

	close(first)
	require.Eventually(t, func() bool { return filled() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, convs.GetConversation(aiID).IsTyping, "second reply still streaming")

	close(second)
	svc.Wait()

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 4)
	assert.Equal(t, "re:one", conv.Messages[1].Text)
	assert.Equal(t, "re:two", conv.Messages[3].Text)
	assert.False(t, conv.IsTyping)
}

func TestStreamErrorReplacesPlaceholder(t *testing.T) {
	chat := &fakeChat{chunks: []string{"par"}, err: errors.New("reset")}
	svc, dir, convs := newTestService(ai.NewAdapter(chat, nil, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), aiID, "hello"))
	svc.Wait()

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, ReplyErrorText, conv.Messages[1].Text)
	assert.False(t, conv.IsTyping)

	c, _ := dir.Get(aiID)
	assert.Equal(t, "hello", c.LastMessage, "summary keeps the user message on failure")
}

func TestSendWithoutAdapter(t *testing.T) {
	svc, _, convs := newTestService(nil)

	require.NoError(t, svc.Send(context.Background(), aiID, "hello"))
	svc.Wait()

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "hello", conv.Messages[0].Text)
	assert.False(t, conv.IsTyping)
}

func TestSendToSimulatedContact(t *testing.T) {
	chat := &fakeChat{chunks: []string{"never"}}
	svc, dir, convs := newTestService(ai.NewAdapter(chat, nil, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), "user-2", "  /imagine a cat  "))
	svc.Wait()

	conv := convs.GetConversation("user-2")
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "/imagine a cat", conv.Messages[0].Text)
	assert.False(t, conv.IsTyping)
	assert.Empty(t, convs.GetConversation(aiID).Messages)

	c, _ := dir.Get("user-2")
	assert.Equal(t, "/imagine a cat", c.LastMessage)
}

func TestSendIgnoresBlankAndRejectsUnknown(t *testing.T) {
	svc, _, convs := newTestService(nil)

	require.NoError(t, svc.Send(context.Background(), "user-2", "   "))
	require.NoError(t, svc.Send(context.Background(), "user-2", "<b></b>"))
	assert.Empty(t, convs.GetConversation("user-2").Messages)

	assert.Error(t, svc.Send(context.Background(), "ghost", "hi"))
}

func TestImagineRoutesToImageGeneration(t *testing.T) {
	images := &fakeImages{img: &ai.Image{MIMEType: "image/png", Data: []byte("hi")}}
	chat := &fakeChat{chunks: []string{"plain reply"}}
	svc, dir, convs := newTestService(ai.NewAdapter(chat, images, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), aiID, "/IMAGINE a red fox"))
	svc.Wait()

	assert.Equal(t, []string{"a red fox"}, images.prompts)

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "/imagine a red fox", conv.Messages[0].Text)
	assert.Equal(t, "a red fox", conv.Messages[1].Text)
	assert.Equal(t, "data:image/png;base64,aGk=", conv.Messages[1].ImageRef)
	assert.False(t, conv.IsTyping)
	for _, m := range conv.Messages {
		assert.NotEqual(t, "plain reply", m.Text)
	}

	c, _ := dir.Get(aiID)
	assert.Equal(t, GeneratedSummary, c.LastMessage)
}

func TestImagineFailure(t *testing.T) {
	images := &fakeImages{err: errors.New("blocked")}
	svc, dir, convs := newTestService(ai.NewAdapter(&fakeChat{}, images, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), aiID, "/imagine something"))
	svc.Wait()

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, ImageErrorText, conv.Messages[1].Text)
	assert.Empty(t, conv.Messages[1].ImageRef)

	c, _ := dir.Get(aiID)
	assert.Equal(t, GeneratingSummary, c.LastMessage)
}

func TestImagineWithoutCredential(t *testing.T) {
	svc, _, convs := newTestService(nil)

	require.NoError(t, svc.Send(context.Background(), aiID, "/imagine a boat"))
	svc.Wait()

	conv := convs.GetConversation(aiID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, ImageErrorText, conv.Messages[1].Text)
}

func TestBareImagineIsPlainText(t *testing.T) {
	images := &fakeImages{}
	svc, _, convs := newTestService(ai.NewAdapter(&fakeChat{}, images, zap.NewNop()))

	require.NoError(t, svc.Send(context.Background(), aiID, "/imagine     "))
	svc.Wait()

	// Trimmed input is "/imagine", which lacks the trailing space.
	conv := convs.GetConversation(aiID)
	require.NotEmpty(t, conv.Messages)
	assert.Equal(t, "/imagine", conv.Messages[0].Text)
	assert.Empty(t, images.prompts)
}

func TestParseImagine(t *testing.T) {
	tests := []struct {
		in     string
		prompt string
		ok     bool
	}{
		{"/imagine a red fox", "a red fox", true},
		{"/Imagine   spaced out  ", "spaced out", true},
		{"/imagine ", "", true},
		{"/imagine", "", false},
		{"imagine a fox", "", false},
		{"/imaginary friend", "", false},
	}
	for _, tt := range tests {
		prompt, ok := ParseImagine(tt.in)
		if prompt != tt.prompt || ok != tt.ok {
			t.Errorf("ParseImagine(%q) = %q, %v; want %q, %v", tt.in, prompt, ok, tt.prompt, tt.ok)
		}
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "short...", Summarize("short"))
	long := strings.Repeat("é", 40)
	assert.Equal(t, strings.Repeat("é", 30)+"...", Summarize(long))
}

func TestSelect(t *testing.T) {
	svc, dir, _ := newTestService(nil)
	require.NoError(t, svc.Select("user-2"))
	assert.Equal(t, "user-2", dir.Active())
	assert.Error(t, svc.Select("ghost"))
}
