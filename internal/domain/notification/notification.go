package notification

import (
	"context"
	"errors"
	"strings"
	"time"

	"stuverse/internal/domain/user"
)

var (
	ErrRecipientRequired = errors.New("notification: recipient is required")
	ErrMessageRequired   = errors.New("notification: message is required")
	ErrInvalidType       = errors.New("notification: invalid type")
)

type Type string

const (
	TypeMessage   Type = "MESSAGE"
	TypeRideJoin  Type = "RIDE_JOIN"
	TypeRideLeave Type = "RIDE_LEAVE"
	TypeLostMatch Type = "LOST_MATCH"
	TypeSystem    Type = "SYSTEM"
)

func (t Type) Valid() bool {
	switch t {
	case TypeMessage, TypeRideJoin, TypeRideLeave, TypeLostMatch, TypeSystem:
		return true
	}
	return false
}

type ID string

// Notification is a per-recipient alert created as a side effect of some other
// feature's write path. Only the isRead flag ever changes after creation.
type Notification struct {
	ID          ID
	RecipientID user.ID
	SenderID    user.ID // empty for system-generated events
	Type        Type
	Message     string
	RelatedID   string
	Link        string
	IsRead      bool
	CreatedAt   time.Time
}

type CreateParams struct {
	ID          ID
	RecipientID user.ID
	SenderID    user.ID
	Type        Type
	Message     string
	RelatedID   string
	Link        string
	CreatedAt   time.Time
}

func New(params CreateParams) (*Notification, error) {
	if strings.TrimSpace(string(params.RecipientID)) == "" {
		return nil, ErrRecipientRequired
	}
	if !params.Type.Valid() {
		return nil, ErrInvalidType
	}
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	return &Notification{
		ID:          params.ID,
		RecipientID: params.RecipientID,
		SenderID:    params.SenderID,
		Type:        params.Type,
		Message:     message,
		RelatedID:   params.RelatedID,
		Link:        params.Link,
		CreatedAt:   now.UTC(),
	}, nil
}

type Repository interface {
	Save(ctx context.Context, n *Notification) error
	// Recent returns up to limit notifications for the recipient, newest
	// first.
	Recent(ctx context.Context, recipient user.ID, limit int) ([]*Notification, error)
	// MarkAllRead flips every unread notification for the recipient.
	MarkAllRead(ctx context.Context, recipient user.ID) error
}
