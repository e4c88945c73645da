package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"stuverse/internal/domain/user"
)

var (
	ErrEmptyContent      = errors.New("chat: message content is required")
	ErrRecipientRequired = errors.New("chat: recipient is required")
	ErrSenderRequired    = errors.New("chat: sender is required")
)

type MessageID string

// Message is an immutable direct message between two users. There is no edit
// or delete path; history is append-only and storage write order is the
// authoritative order.
type Message struct {
	ID          MessageID
	SenderID    user.ID
	RecipientID user.ID
	Content     string
	CreatedAt   time.Time
}

// Conversation is derived per counterpart, never persisted.
type Conversation struct {
	User        user.Summary `json:"user"`
	LastMessage string       `json:"lastMessage"`
	Date        time.Time    `json:"date"`
}

type CreateParams struct {
	ID          MessageID
	SenderID    user.ID
	RecipientID user.ID
	Content     string
	CreatedAt   time.Time
}

func NewMessage(params CreateParams) (*Message, error) {
	if strings.TrimSpace(string(params.SenderID)) == "" {
		return nil, ErrSenderRequired
	}
	if strings.TrimSpace(string(params.RecipientID)) == "" {
		return nil, ErrRecipientRequired
	}
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Message{
		ID:          params.ID,
		SenderID:    params.SenderID,
		RecipientID: params.RecipientID,
		Content:     content,
		CreatedAt:   now.UTC(),
	}, nil
}

// Counterpart returns the other participant as seen from viewer.
func (m *Message) Counterpart(viewer user.ID) user.ID {
	if m.SenderID == viewer {
		return m.RecipientID
	}
	return m.SenderID
}

type Repository interface {
	Save(ctx context.Context, message *Message) error
	// Between returns every message exchanged by the pair in either
	// direction, oldest first.
	Between(ctx context.Context, a, b user.ID) ([]*Message, error)
	// Involving returns every message sent or received by the user,
	// newest first.
	Involving(ctx context.Context, id user.ID) ([]*Message, error)
}
