package relay

import (
	"log/slog"
	"sync"

	"stuverse/internal/domain/user"
)

// Channel name prefixes keep identity channels and advisory conversation
// rooms from colliding; both are keyed by user ids.
const (
	userChannelPrefix = "user:"
	roomChannelPrefix = "conv:"
)

func userChannel(id user.ID) string { return userChannelPrefix + string(id) }
func roomChannel(key string) string { return roomChannelPrefix + key }

// Hub is the presence registry: the only shared mutable structure in the
// realtime layer. It maps channel names to the set of live connections bound
// to them, guarded by a single lock. Connections reference the hub, never the
// other way beyond set membership, so teardown cannot leave cycles.
type Hub struct {
	logger *slog.Logger

	mu       sync.RWMutex
	channels map[string]map[*Client]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:   logger,
		channels: make(map[string]map[*Client]struct{}),
	}
}

// bind adds the connection to a named channel. Idempotent per connection.
func (h *Hub) bind(c *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.channels[channel]
	if !ok {
		set = make(map[*Client]struct{})
		h.channels[channel] = set
	}
	set[c] = struct{}{}
	c.channels[channel] = struct{}{}
}

// Register binds a live connection to the identity channel of its user. A
// user may hold several simultaneous connections; all of them receive routed
// events. Calling it again for the same connection simply re-registers.
func (h *Hub) Register(c *Client, id user.ID) {
	h.bind(c, userChannel(id))
}

// Subscribe additionally binds the connection to a conversation room. Joining
// is advisory for UI purposes only; delivery never depends on it.
func (h *Hub) Subscribe(c *Client, key string) {
	h.bind(c, roomChannel(key))
}

// Unregister removes the connection from every channel it was part of.
// Safe to call on an already-removed connection.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel := range c.channels {
		if set, ok := h.channels[channel]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.channels, channel)
			}
		}
	}
	c.channels = make(map[string]struct{})
}

// Deliver forwards payload to every connection registered under the
// recipient's identity channel, except the originating one. Best effort and
// at most once: connections that cannot keep up are dropped, and an absent
// recipient just means zero deliveries.
func (h *Hub) Deliver(recipient user.ID, payload []byte, origin *Client) int {
	h.mu.RLock()
	set := h.channels[userChannel(recipient)]
	targets := make([]*Client, 0, len(set))
	for c := range set {
		if c != origin {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		select {
		case c.send <- payload:
			delivered++
		default:
			// Slow consumer: the write pump is wedged, cut it loose.
			h.logger.Warn("relay: dropping slow connection", "user_id", c.userID)
			c.close()
		}
	}
	return delivered
}

// Connections reports how many live connections the user has. Used by tests
// and the readiness surface.
func (h *Hub) Connections(id user.ID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[userChannel(id)])
}
