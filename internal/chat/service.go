// Package chat turns composer input into conversation updates: plain sends,
// streamed AI replies folded into a placeholder, and /imagine image requests.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/matheus3301/lmekki/internal/ai"
	"github.com/matheus3301/lmekki/internal/ids"
	"github.com/matheus3301/lmekki/internal/store"
	"go.uber.org/zap"
)

// ImagineCommand prefixes an image request to the AI contact. Matched
// case-insensitively against trimmed input.
const ImagineCommand = "/imagine "

// User-visible copy.
const (
	ReplyErrorText    = "Sorry, something went wrong while contacting the assistant."
	ImageErrorText    = "Sorry, the image could not be generated. The prompt may have been rejected as inappropriate content."
	GeneratingSummary = "Generating image..."
	GeneratedSummary  = "Image generated successfully."
)

const summaryRunes = 30

// Service routes outgoing input. Each AI exchange runs on its own goroutine
// and always lands on the contact it was started for.
type Service struct {
	dir    *store.Directory
	convs  *store.Conversations
	ai     *ai.Adapter
	logger *zap.Logger
	now    func() time.Time
	wg     sync.WaitGroup

	// replies counts in-flight AI exchanges per contact. The typing flag is
	// set and cleared under replyMu so it stays on until the last one ends.
	replyMu sync.Mutex
	replies map[string]int
}

// NewService creates a chat service. adapter may be nil.
func NewService(dir *store.Directory, convs *store.Conversations, adapter *ai.Adapter, logger *zap.Logger) *Service {
	return &Service{
		dir:     dir,
		convs:   convs,
		ai:      adapter,
		logger:  logger,
		now:     time.Now,
		replies: make(map[string]int),
	}
}

// Select makes contactID the active contact.
func (s *Service) Select(contactID string) error {
	return s.dir.Select(contactID)
}

// Send handles one composer submission for contactID. Blank input is ignored.
// AI work started here continues in the background; use Wait to join it.
func (s *Service) Send(ctx context.Context, contactID, text string) error {
	if _, ok := s.dir.Get(contactID); !ok {
		return fmt.Errorf("unknown contact %q", contactID)
	}
	text = SanitizeInput(text)
	if text == "" {
		return nil
	}

	if s.dir.IsAI(contactID) {
		if prompt, ok := ParseImagine(text); ok {
			if prompt != "" {
				s.imagine(ctx, contactID, prompt)
			}
			return nil
		}
	}

	label := s.label()
	s.convs.AppendMessage(contactID, store.Message{
		ID:        ids.NewMessageID(),
		Text:      text,
		Sender:    store.SenderUser,
		Timestamp: label,
	})
	s.dir.RecordSummary(contactID, text, label)

	if !s.dir.IsAI(contactID) {
		return nil
	}
	if !s.ai.Available() {
		s.logger.Debug("no AI adapter, message stored unanswered", zap.String("contact", contactID))
		return nil
	}

	s.beginReply(contactID)
	replyID := ids.NewMessageID()
	s.convs.AppendMessage(contactID, store.Message{
		ID:        replyID,
		Sender:    store.SenderAI,
		Timestamp: s.label(),
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.stream(ctx, contactID, replyID, text)
	}()
	return nil
}

// Wait blocks until every in-flight AI exchange has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// stream folds reply deltas into the placeholder as a running total.
func (s *Service) stream(ctx context.Context, contactID, replyID, text string) {
	defer s.endReply(contactID)

	var full strings.Builder
	for delta, err := range s.ai.SendAndStream(ctx, text) {
		if err != nil {
			s.logger.Error("AI reply failed", zap.String("contact", contactID), zap.Error(err))
			s.convs.UpdateMessage(contactID, replyID, store.TextPatch(ReplyErrorText))
			return
		}
		full.WriteString(delta)
		s.convs.UpdateMessage(contactID, replyID, store.TextPatch(full.String()))
	}

	s.dir.RecordSummary(contactID, Summarize(full.String()), s.label())
	s.logger.Info("AI reply complete", zap.String("contact", contactID), zap.Int("len", full.Len()))
}

// imagine appends the echo and placeholder, then resolves the placeholder
// in the background. Concurrent requests are not serialised.
func (s *Service) imagine(ctx context.Context, contactID, prompt string) {
	label := s.label()
	s.convs.AppendMessage(contactID, store.Message{
		ID:        ids.NewMessageID(),
		Text:      ImagineCommand + prompt,
		Sender:    store.SenderUser,
		Timestamp: label,
	})
	s.dir.RecordSummary(contactID, GeneratingSummary, label)

	placeholderID := ids.NewMessageID()
	s.convs.AppendMessage(contactID, store.Message{
		ID:        placeholderID,
		Text:      fmt.Sprintf("Generating an image of %q...", prompt),
		Sender:    store.SenderAI,
		Timestamp: s.label(),
	})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		img, err := s.ai.GenerateImage(ctx, prompt)
		if err != nil {
			s.logger.Error("image generation failed", zap.String("contact", contactID), zap.Error(err))
			s.convs.UpdateMessage(contactID, placeholderID, store.TextPatch(ImageErrorText))
			return
		}
		s.convs.UpdateMessage(contactID, placeholderID, store.ImagePatch(prompt, img.DataURL()))
		s.dir.RecordSummary(contactID, GeneratedSummary, s.label())
	}()
}

func (s *Service) beginReply(contactID string) {
	s.replyMu.Lock()
	defer s.replyMu.Unlock()
	s.replies[contactID]++
	s.convs.SetTyping(contactID, true)
}

func (s *Service) endReply(contactID string) {
	s.replyMu.Lock()
	defer s.replyMu.Unlock()
	s.replies[contactID]--
	if s.replies[contactID] > 0 {
		return
	}
	delete(s.replies, contactID)
	s.convs.SetTyping(contactID, false)
}

func (s *Service) label() string {
	return ids.TimeLabel(s.now())
}

// ParseImagine reports whether text is an image command and returns its
// trimmed prompt. text is expected to be trimmed already.
func ParseImagine(text string) (string, bool) {
	if len(text) < len(ImagineCommand) || !strings.EqualFold(text[:len(ImagineCommand)], ImagineCommand) {
		return "", false
	}
	return strings.TrimSpace(text[len(ImagineCommand):]), true
}

// Summarize shortens an AI reply for the contact list.
func Summarize(text string) string {
	if utf8.RuneCountInString(text) > summaryRunes {
		text = string([]rune(text)[:summaryRunes])
	}
	return text + "..."
}
