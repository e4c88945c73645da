package relay

import (
	"encoding/json"

	"stuverse/internal/domain/user"
)

// Frame is the envelope for every event crossing the live channel, in both
// directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client-originated events.
const (
	// EventSetup identifies the connection; routing is inactive before it.
	EventSetup = "setup"
	// EventJoin marks the connection as viewing a conversation. Advisory:
	// delivery always targets the recipient's identity channel.
	EventJoin = "join"
	// EventMessage asks the relay to forward an already-persisted message
	// to the recipient's live connections.
	EventMessage = "message"
)

// Server-originated events.
const (
	// EventConnected acknowledges a setup; routing is active from here on.
	EventConnected = "connected"
	// EventDelivery carries a forwarded message payload.
	EventDelivery = "message"
)

type setupData struct {
	UserID user.ID `json:"_id"`
}

type joinData struct {
	Room string `json:"room"`
}

// messageData picks only the routing fields out of a message event; the full
// payload is forwarded to the recipient unchanged.
type messageData struct {
	Recipient struct {
		ID user.ID `json:"_id"`
	} `json:"recipient"`
}

func marshalFrame(event string, data any) ([]byte, error) {
	frame := Frame{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		frame.Data = raw
	}
	return json.Marshal(frame)
}
