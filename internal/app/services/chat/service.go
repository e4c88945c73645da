package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stuverse/internal/app/services/notify"
	domainchat "stuverse/internal/domain/chat"
	domainnotif "stuverse/internal/domain/notification"
	domainuser "stuverse/internal/domain/user"
)

// Notifier is the fire-and-forget alert side effect of a delivered message.
type Notifier interface {
	Notify(ctx context.Context, params notify.Params)
}

// Service owns the durable side of direct messaging: the message store, the
// pair history and the derived conversation list. Live delivery is a separate
// best-effort concern handled by the relay after the write here succeeded.
type Service struct {
	Messages domainchat.Repository
	Users    domainuser.Repository
	Notifier Notifier
	Logger   *slog.Logger
}

// MessageView is a stored message joined with participant summaries for
// immediate client rendering.
type MessageView struct {
	ID        domainchat.MessageID `json:"_id"`
	Sender    domainuser.Summary   `json:"sender"`
	Recipient domainuser.Summary   `json:"recipient"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"createdAt"`
}

// Send validates and durably persists a new immutable message, returning it
// joined with both participant summaries.
func (s *Service) Send(ctx context.Context, senderID, recipientID domainuser.ID, content string) (*MessageView, error) {
	sender, err := s.Users.ByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("chat: resolve sender: %w", err)
	}
	recipient, err := s.Users.ByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("chat: resolve recipient: %w", err)
	}

	message, err := domainchat.NewMessage(domainchat.CreateParams{
		ID:          domainchat.MessageID(uuid.NewString()),
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Messages.Save(ctx, message); err != nil {
		return nil, fmt.Errorf("chat: save message: %w", err)
	}
	if s.Notifier != nil {
		s.Notifier.Notify(ctx, notify.Params{
			Recipient: recipientID,
			Sender:    senderID,
			Type:      domainnotif.TypeMessage,
			Message:   fmt.Sprintf("New message from %s", sender.Name),
			RelatedID: string(message.ID),
			Link:      "/chat",
		})
	}
	return &MessageView{
		ID:        message.ID,
		Sender:    sender.Summary(),
		Recipient: recipient.Summary(),
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}, nil
}

// History returns every message between the two users in chronological
// reading order. Symmetric in its arguments.
func (s *Service) History(ctx context.Context, viewer, counterpart domainuser.ID) ([]MessageView, error) {
	messages, err := s.Messages.Between(ctx, viewer, counterpart)
	if err != nil {
		return nil, fmt.Errorf("chat: load history: %w", err)
	}
	summaries := make(map[domainuser.ID]domainuser.Summary, 2)
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		sender, err := s.summaryFor(ctx, summaries, m.SenderID)
		if err != nil {
			return nil, err
		}
		recipient, err := s.summaryFor(ctx, summaries, m.RecipientID)
		if err != nil {
			return nil, err
		}
		views = append(views, MessageView{
			ID:        m.ID,
			Sender:    sender,
			Recipient: recipient,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return views, nil
}

// Conversations derives the inbox view: one row per counterpart, carrying the
// most recent message, ordered by recency. Messages are scanned newest first
// so the first occurrence per counterpart is authoritative. Counterparts
// whose account no longer resolves are skipped.
func (s *Service) Conversations(ctx context.Context, viewer domainuser.ID) ([]domainchat.Conversation, error) {
	messages, err := s.Messages.Involving(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("chat: scan messages: %w", err)
	}
	seen := make(map[domainuser.ID]struct{})
	conversations := make([]domainchat.Conversation, 0)
	for _, m := range messages {
		other := m.Counterpart(viewer)
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		counterpart, err := s.Users.ByID(ctx, other)
		if err != nil {
			if errors.Is(err, domainuser.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("chat: resolve counterpart: %w", err)
		}
		conversations = append(conversations, domainchat.Conversation{
			User:        counterpart.Summary(),
			LastMessage: m.Content,
			Date:        m.CreatedAt,
		})
	}
	return conversations, nil
}

func (s *Service) summaryFor(ctx context.Context, cache map[domainuser.ID]domainuser.Summary, id domainuser.ID) (domainuser.Summary, error) {
	if summary, ok := cache[id]; ok {
		return summary, nil
	}
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			// Deleted account: keep the message, show a bare id.
			summary := domainuser.Summary{ID: id}
			cache[id] = summary
			return summary, nil
		}
		return domainuser.Summary{}, fmt.Errorf("chat: resolve participant: %w", err)
	}
	summary := u.Summary()
	cache[id] = summary
	return summary, nil
}
