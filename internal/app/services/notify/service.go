package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainnotif "stuverse/internal/domain/notification"
	domainuser "stuverse/internal/domain/user"
)

// recentLimit caps the dropdown view; older notifications stay stored but
// are never listed.
const recentLimit = 20

// Params describes one alert to create.
type Params struct {
	Recipient domainuser.ID
	Sender    domainuser.ID // optional, empty for system events
	Type      domainnotif.Type
	Message   string
	RelatedID string
	Link      string
}

// Service is the notification fan-out port other features call into as a
// side effect of their own writes.
type Service struct {
	Notifications domainnotif.Repository
	Users         domainuser.Repository
	Logger        *slog.Logger
}

// Notify creates a notification record, fire and forget. A failure here must
// never fail or roll back the operation that triggered it, so errors are
// logged and swallowed.
func (s *Service) Notify(ctx context.Context, params Params) {
	n, err := domainnotif.New(domainnotif.CreateParams{
		ID:          domainnotif.ID(uuid.NewString()),
		RecipientID: params.Recipient,
		SenderID:    params.Sender,
		Type:        params.Type,
		Message:     params.Message,
		RelatedID:   params.RelatedID,
		Link:        params.Link,
	})
	if err != nil {
		s.log().Warn("notification rejected", "error", err, "type", params.Type, "recipient", params.Recipient)
		return
	}
	if err := s.Notifications.Save(ctx, n); err != nil {
		s.log().Warn("notification creation failed", "error", err, "type", params.Type, "recipient", params.Recipient)
	}
}

// View is a notification joined with the sender summary.
type View struct {
	ID        domainnotif.ID      `json:"_id"`
	Recipient domainuser.ID       `json:"recipient"`
	Sender    *domainuser.Summary `json:"sender,omitempty"`
	Type      domainnotif.Type    `json:"type"`
	Message   string              `json:"message"`
	RelatedID string              `json:"relatedId,omitempty"`
	Link      string              `json:"link,omitempty"`
	IsRead    bool                `json:"isRead"`
	CreatedAt time.Time           `json:"createdAt"`
}

// List returns the recipient's most recent notifications, newest first.
func (s *Service) List(ctx context.Context, recipient domainuser.ID) ([]View, error) {
	items, err := s.Notifications.Recent(ctx, recipient, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("notify: list: %w", err)
	}
	summaries := make(map[domainuser.ID]*domainuser.Summary)
	views := make([]View, 0, len(items))
	for _, n := range items {
		views = append(views, View{
			ID:        n.ID,
			Recipient: n.RecipientID,
			Sender:    s.senderSummary(ctx, summaries, n.SenderID),
			Type:      n.Type,
			Message:   n.Message,
			RelatedID: n.RelatedID,
			Link:      n.Link,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return views, nil
}

// MarkAllRead flips every unread notification for the recipient. Idempotent:
// a second call is a no-op.
func (s *Service) MarkAllRead(ctx context.Context, recipient domainuser.ID) error {
	if err := s.Notifications.MarkAllRead(ctx, recipient); err != nil {
		return fmt.Errorf("notify: mark all read: %w", err)
	}
	return nil
}

func (s *Service) senderSummary(ctx context.Context, cache map[domainuser.ID]*domainuser.Summary, id domainuser.ID) *domainuser.Summary {
	if id == "" {
		return nil
	}
	if summary, ok := cache[id]; ok {
		return summary
	}
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domainuser.ErrNotFound) {
			s.log().Debug("notification sender lookup failed", "error", err, "sender", id)
		}
		cache[id] = nil
		return nil
	}
	summary := u.Summary()
	cache[id] = &summary
	return &summary
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
