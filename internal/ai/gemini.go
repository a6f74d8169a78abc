package ai

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Options configures the Gemini-backed adapter.
type Options struct {
	APIKey     string
	Persona    string
	ChatModel  string
	ImageModel string
}

// New creates the Gemini chat session and Imagen generator. An empty API key
// is not an error: it returns a nil adapter, which never answers.
func New(ctx context.Context, opts Options, logger *zap.Logger) (*Adapter, error) {
	if opts.APIKey == "" {
		logger.Info("no API key, AI replies disabled")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	chat, err := client.Chats.Create(ctx, opts.ChatModel, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(opts.Persona, genai.RoleUser),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating chat session: %w", err)
	}

	logger.Info("AI session ready",
		zap.String("chat_model", opts.ChatModel),
		zap.String("image_model", opts.ImageModel),
	)
	return NewAdapter(
		&geminiChat{chat: chat},
		&imagen{models: client.Models, model: opts.ImageModel},
		logger,
	), nil
}

type geminiChat struct {
	chat *genai.Chat
}

func (g *geminiChat) SendMessageStream(ctx context.Context, text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for resp, err := range g.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
			if err != nil {
				yield("", fmt.Errorf("gemini stream: %w", err))
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}

type imagen struct {
	models *genai.Models
	model  string
}

func (g *imagen) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: "image/png",
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, fmt.Errorf("imagen generate: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, errors.New("imagen returned no image")
	}
	img := resp.GeneratedImages[0].Image
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return &Image{MIMEType: mime, Data: img.ImageBytes}, nil
}
