package memory

import (
	"context"
	"sort"
	"sync"

	domainchat "stuverse/internal/domain/chat"
	domainuser "stuverse/internal/domain/user"
)

// MessageRepository stores messages in memory. A monotonic sequence breaks
// ties between messages created within the same timestamp tick, so scan
// order always equals write order.
type MessageRepository struct {
	mu       sync.RWMutex
	seq      uint64
	messages []storedMessage
}

type storedMessage struct {
	seq     uint64
	message domainchat.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Save(ctx context.Context, m *domainchat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.messages = append(r.messages, storedMessage{seq: r.seq, message: *m})
	return nil
}

func (r *MessageRepository) Between(ctx context.Context, a, b domainuser.ID) ([]*domainchat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainchat.Message, 0)
	for _, s := range r.messages {
		m := s.message
		if (m.SenderID == a && m.RecipientID == b) || (m.SenderID == b && m.RecipientID == a) {
			copied := m
			out = append(out, &copied)
		}
	}
	// Append order is already chronological; sort keeps the contract
	// explicit for records loaded out of order.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MessageRepository) Involving(ctx context.Context, id domainuser.ID) ([]*domainchat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := make([]storedMessage, 0)
	for _, s := range r.messages {
		if s.message.SenderID == id || s.message.RecipientID == id {
			stored = append(stored, s)
		}
	}
	sort.SliceStable(stored, func(i, j int) bool {
		if stored[i].message.CreatedAt.Equal(stored[j].message.CreatedAt) {
			return stored[i].seq > stored[j].seq
		}
		return stored[i].message.CreatedAt.After(stored[j].message.CreatedAt)
	})
	out := make([]*domainchat.Message, 0, len(stored))
	for _, s := range stored {
		copied := s.message
		out = append(out, &copied)
	}
	return out, nil
}
