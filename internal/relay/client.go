package relay

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"stuverse/internal/domain/user"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 256
)

// Client is the middleman between one websocket connection and the hub. Its
// lifecycle is Connected (anonymous) -> Identified -> Disconnected; a new
// physical connection always restarts at Connected.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	logger *slog.Logger

	send chan []byte
	done chan struct{}
	once sync.Once

	// authID is the identity resolved from the transport handshake, empty
	// when the connection arrived without credentials.
	authID user.ID
	// userID is set by a successful setup event; the connection is
	// routable from then on.
	userID user.ID

	// channels the hub has bound this connection to; owned by the hub
	// lock.
	channels map[string]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, authID user.ID, logger *slog.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		logger:   logger,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		authID:   authID,
		channels: make(map[string]struct{}),
	}
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// readPump pumps frames from the websocket into the event handlers. Frames
// are handled serially, which preserves per-connection ordering.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Debug("relay: read failed", "error", err, "user_id", c.userID)
			}
			return
		}
		c.handleFrame(raw)
	}
}

// writePump pumps hub deliveries out to the websocket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame dispatches one inbound frame. Malformed or unauthorized frames
// are dropped and logged; the connection stays open for unrelated traffic.
func (c *Client) handleFrame(raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.logger.Debug("relay: malformed frame dropped", "error", err)
		return
	}
	switch frame.Event {
	case EventSetup:
		c.handleSetup(frame.Data)
	case EventJoin:
		c.handleJoin(frame.Data)
	case EventMessage:
		c.handleMessage(frame.Data)
	default:
		c.logger.Debug("relay: unknown event dropped", "event", frame.Event)
	}
}

func (c *Client) handleSetup(data json.RawMessage) {
	if c.authID == "" {
		// Rejecting the operation, not the connection.
		c.logger.Warn("relay: setup on unauthenticated connection dropped")
		return
	}
	var payload setupData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Debug("relay: malformed setup dropped", "error", err)
			return
		}
	}
	if payload.UserID != "" && payload.UserID != c.authID {
		c.logger.Warn("relay: setup identity mismatch, using resolved identity", "claimed", payload.UserID, "resolved", c.authID)
	}
	c.userID = c.authID
	c.hub.Register(c, c.userID)

	ack, err := marshalFrame(EventConnected, nil)
	if err != nil {
		return
	}
	select {
	case c.send <- ack:
	case <-c.done:
	}
}

func (c *Client) handleJoin(data json.RawMessage) {
	if c.userID == "" {
		c.logger.Debug("relay: join before setup dropped")
		return
	}
	room := ""
	// Clients send either a bare room key or a {room} object.
	if err := json.Unmarshal(data, &room); err != nil {
		var payload joinData
		if err := json.Unmarshal(data, &payload); err != nil {
			c.logger.Debug("relay: malformed join dropped", "error", err)
			return
		}
		room = payload.Room
	}
	if room == "" {
		c.logger.Debug("relay: join without room dropped")
		return
	}
	c.hub.Subscribe(c, room)
}

// handleMessage forwards an already-persisted message to the recipient's
// identity channel. The durable write happened on the REST path before the
// client emitted this event, so everything here is a best-effort delivery
// hint, never the source of truth.
func (c *Client) handleMessage(data json.RawMessage) {
	if c.userID == "" {
		c.logger.Debug("relay: message from unidentified connection dropped")
		return
	}
	var payload messageData
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Debug("relay: malformed message dropped", "error", err)
		return
	}
	if payload.Recipient.ID == "" {
		c.logger.Debug("relay: message without recipient dropped", "sender", c.userID)
		return
	}
	out, err := marshalFrame(EventDelivery, json.RawMessage(data))
	if err != nil {
		return
	}
	c.hub.Deliver(payload.Recipient.ID, out, c)
}
