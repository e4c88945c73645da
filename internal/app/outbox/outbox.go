package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventRecord is one domain event awaiting publication.
type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

// Outbox collects domain events alongside the write that produced them. A
// separate worker publishes them; a nil or failing outbox never fails the
// triggering operation.
type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
}

// Record encodes payload as JSON and stores it under the given event name.
// Best effort by contract: callers log the returned error and move on.
func Record(ctx context.Context, box Outbox, name, aggregate string, payload any) error {
	if box == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return box.Add(ctx, EventRecord{
		ID:         uuid.NewString(),
		Name:       name,
		Payload:    raw,
		OccurredAt: time.Now().UTC(),
		Aggregate:  aggregate,
		Headers:    map[string]string{},
	})
}
