// Package ai wraps the single AI-backed exchange: one persistent chat session
// with a fixed persona, plus one-shot image generation.
package ai

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/matheus3301/lmekki/internal/dataurl"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when no credential was configured.
var ErrUnavailable = errors.New("ai: no credential configured")

// ChatStream is a persistent chat handle that streams reply text deltas.
type ChatStream interface {
	SendMessageStream(ctx context.Context, text string) iter.Seq2[string, error]
}

// ImageGenerator produces one image from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}

// Image is raw generated image bytes with their mime type.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURL encodes the image as a data: URL usable as a message image reference.
func (img *Image) DataURL() string {
	return dataurl.Encode(img.MIMEType, img.Data)
}

// ParseDataURL decodes a base64 data: URL produced by DataURL.
func ParseDataURL(s string) (*Image, error) {
	mime, data, err := dataurl.Decode(s)
	if err != nil {
		return nil, err
	}
	return &Image{MIMEType: mime, Data: data}, nil
}

// Adapter owns the chat handle for the application session.
// A nil *Adapter is valid and reports Available() == false.
type Adapter struct {
	// exchange is held for a whole SendAndStream iteration. The chat handle
	// appends to one shared history and is not safe for overlapping sends.
	exchange sync.Mutex
	chat     ChatStream
	images   ImageGenerator
	logger   *zap.Logger
}

// NewAdapter builds an adapter over the given backends.
func NewAdapter(chat ChatStream, images ImageGenerator, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{chat: chat, images: images, logger: logger}
}

// Available reports whether the adapter can answer messages.
func (a *Adapter) Available() bool {
	return a != nil && a.chat != nil
}

// SendAndStream sends text on the persistent chat and yields reply deltas in
// arrival order. The sequence is single-use and runs until exhaustion or the
// first error.
func (a *Adapter) SendAndStream(ctx context.Context, text string) iter.Seq2[string, error] {
	if !a.Available() {
		return func(yield func(string, error) bool) {
			yield("", ErrUnavailable)
		}
	}
	return func(yield func(string, error) bool) {
		a.exchange.Lock()
		defer a.exchange.Unlock()

		chunks := 0
		for delta, err := range a.chat.SendMessageStream(ctx, text) {
			if err != nil {
				a.logger.Warn("chat stream failed", zap.Int("chunks", chunks), zap.Error(err))
				yield("", err)
				return
			}
			chunks++
			if !yield(delta, nil) {
				return
			}
		}
		a.logger.Debug("chat stream complete", zap.Int("chunks", chunks))
	}
}

// GenerateImage requests a single image for prompt.
func (a *Adapter) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	if a == nil || a.images == nil {
		return nil, ErrUnavailable
	}
	img, err := a.images.GenerateImage(ctx, prompt)
	if err != nil {
		a.logger.Warn("image generation failed", zap.Error(err))
		return nil, err
	}
	a.logger.Info("image generated", zap.String("mime", img.MIMEType), zap.Int("bytes", len(img.Data)))
	return img, nil
}
