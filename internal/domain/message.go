package domain

import (
	"time"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// ImageAttachment references an image the user attached to a message.
// Only the name travels to the AI webhook; the URL is kept for display.
type ImageAttachment struct {
	URL  string
	Name string
	Size int64
}

// ChatMessage is one entry of the in-memory transcript. Messages are
// append-only: once created they are never mutated.
type ChatMessage struct {
	ID        string
	Sender    Sender
	Text      string
	Image     *ImageAttachment
	Timestamp time.Time
}

// ConversationTurn is the persisted unit: one user message paired with
// the assistant response it produced.
type ConversationTurn struct {
	ID          int64
	UserID      int64
	UserMessage string
	AIResponse  string
	Grade       Grade
	CreatedAt   time.Time
}
