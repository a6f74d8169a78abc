package store

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser Sender = "user"
	// SenderAI marks every inbound message: AI replies and simulated contacts alike.
	SenderAI Sender = "ai"
)

// Contact is an addressable chat peer with its directory summary fields.
type Contact struct {
	ID              string
	Name            string
	Avatar          string
	LastMessage     string
	LastMessageTime string
	UnreadCount     int
}

// Message is one entry in a thread. ID is stable once appended; only Text
// and ImageRef may be rewritten in place.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Timestamp string
	ImageRef  string
}

// Conversation is one contact's ordered message log plus its typing flag.
type Conversation struct {
	Messages []Message
	IsTyping bool
}

// Patch rewrites the mutable fields of a message. Nil fields are left as is.
type Patch struct {
	Text     *string
	ImageRef *string
}

// TextPatch replaces a message's text.
func TextPatch(text string) Patch {
	return Patch{Text: &text}
}

// ImagePatch replaces a message's text and image reference together.
func ImagePatch(text, imageRef string) Patch {
	return Patch{Text: &text, ImageRef: &imageRef}
}

// SearchResult holds a message with a search snippet.
type SearchResult struct {
	ContactID string
	Message   Message
	Snippet   string
}
