package memory

import (
	"context"
	"sync"

	"stuverse/internal/app/outbox"
)

// Outbox collects event records in memory; tests inspect them directly.
type Outbox struct {
	mu      sync.Mutex
	records []outbox.EventRecord
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Add(ctx context.Context, record outbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.records = append(o.records, record)
	return nil
}

func (o *Outbox) Records() []outbox.EventRecord {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]outbox.EventRecord(nil), o.records...)
}
