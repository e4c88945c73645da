package memory

import (
	"context"
	"sort"
	"sync"

	domainnotif "stuverse/internal/domain/notification"
	domainuser "stuverse/internal/domain/user"
)

// NotificationRepository stores notifications in memory.
type NotificationRepository struct {
	mu    sync.RWMutex
	seq   uint64
	items []storedNotification
}

type storedNotification struct {
	seq          uint64
	notification domainnotif.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Save(ctx context.Context, n *domainnotif.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.items = append(r.items, storedNotification{seq: r.seq, notification: *n})
	return nil
}

func (r *NotificationRepository) Recent(ctx context.Context, recipient domainuser.ID, limit int) ([]*domainnotif.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := make([]storedNotification, 0)
	for _, s := range r.items {
		if s.notification.RecipientID == recipient {
			stored = append(stored, s)
		}
	}
	sort.SliceStable(stored, func(i, j int) bool {
		if stored[i].notification.CreatedAt.Equal(stored[j].notification.CreatedAt) {
			return stored[i].seq > stored[j].seq
		}
		return stored[i].notification.CreatedAt.After(stored[j].notification.CreatedAt)
	})
	if limit > 0 && len(stored) > limit {
		stored = stored[:limit]
	}
	out := make([]*domainnotif.Notification, 0, len(stored))
	for _, s := range stored {
		copied := s.notification
		out = append(out, &copied)
	}
	return out, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipient domainuser.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].notification.RecipientID == recipient {
			r.items[i].notification.IsRead = true
		}
	}
	return nil
}
