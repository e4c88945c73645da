package relay

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stuverse/internal/domain/user"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(hub *Hub, authID user.ID) *Client {
	return newClient(hub, nil, authID, testLogger())
}

func drain(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	default:
		t.Fatal("expected a queued payload")
		return nil
	}
}

func TestDeliverReachesEveryConnectionExceptOrigin(t *testing.T) {
	hub := NewHub(testLogger())
	tab1 := newTestClient(hub, "bob")
	tab2 := newTestClient(hub, "bob")
	sender := newTestClient(hub, "alice")
	hub.Register(tab1, "bob")
	hub.Register(tab2, "bob")
	hub.Register(sender, "alice")

	delivered := hub.Deliver("bob", []byte("hi"), sender)
	assert.Equal(t, 2, delivered)
	assert.Equal(t, []byte("hi"), drain(t, tab1))
	assert.Equal(t, []byte("hi"), drain(t, tab2))
	assert.Empty(t, sender.send)
}

func TestDeliverSkipsOriginConnection(t *testing.T) {
	hub := NewHub(testLogger())
	self := newTestClient(hub, "bob")
	hub.Register(self, "bob")

	delivered := hub.Deliver("bob", []byte("echo"), self)
	assert.Zero(t, delivered)
	assert.Empty(t, self.send)
}

func TestDeliverToAbsentRecipientIsSilent(t *testing.T) {
	hub := NewHub(testLogger())
	assert.Zero(t, hub.Deliver("ghost", []byte("hi"), nil))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub(testLogger())
	c := newTestClient(hub, "bob")
	hub.Register(c, "bob")
	hub.Subscribe(c, "conv-1")
	require.Equal(t, 1, hub.Connections("bob"))

	hub.Unregister(c)
	hub.Unregister(c)
	assert.Zero(t, hub.Connections("bob"))
	assert.Zero(t, hub.Deliver("bob", []byte("hi"), nil))
}

func TestSlowConsumerIsDropped(t *testing.T) {
	hub := NewHub(testLogger())
	slow := newTestClient(hub, "bob")
	hub.Register(slow, "bob")
	for i := 0; i < sendBuffer; i++ {
		slow.send <- []byte("backlog")
	}

	delivered := hub.Deliver("bob", []byte("one too many"), nil)
	assert.Zero(t, delivered)
	select {
	case <-slow.done:
	default:
		t.Fatal("expected slow connection to be closed")
	}
}

func TestSetupRegistersAndAcks(t *testing.T) {
	hub := NewHub(testLogger())
	c := newTestClient(hub, "bob")

	c.handleFrame([]byte(`{"event":"setup","data":{"_id":"bob"}}`))

	assert.Equal(t, user.ID("bob"), c.userID)
	assert.Equal(t, 1, hub.Connections("bob"))

	var frame Frame
	require.NoError(t, json.Unmarshal(drain(t, c), &frame))
	assert.Equal(t, EventConnected, frame.Event)
}

func TestSetupWithoutCredentialsIsDropped(t *testing.T) {
	hub := NewHub(testLogger())
	c := newTestClient(hub, "")

	c.handleFrame([]byte(`{"event":"setup","data":{"_id":"bob"}}`))

	assert.Empty(t, c.userID)
	assert.Zero(t, hub.Connections("bob"))
	assert.Empty(t, c.send)
}

func TestSetupIgnoresMismatchedClaim(t *testing.T) {
	hub := NewHub(testLogger())
	c := newTestClient(hub, "bob")

	c.handleFrame([]byte(`{"event":"setup","data":{"_id":"mallory"}}`))

	// The resolved identity wins over the claimed one.
	assert.Equal(t, user.ID("bob"), c.userID)
	assert.Equal(t, 1, hub.Connections("bob"))
	assert.Zero(t, hub.Connections("mallory"))
}

func TestMessageForwardsPayloadToRecipient(t *testing.T) {
	hub := NewHub(testLogger())
	sender := newTestClient(hub, "alice")
	recipient := newTestClient(hub, "bob")
	sender.handleFrame([]byte(`{"event":"setup","data":{"_id":"alice"}}`))
	recipient.handleFrame([]byte(`{"event":"setup","data":{"_id":"bob"}}`))
	drain(t, sender)
	drain(t, recipient)

	raw := `{"event":"message","data":{"recipient":{"_id":"bob"},"content":"hi bob"}}`
	sender.handleFrame([]byte(raw))

	var frame Frame
	require.NoError(t, json.Unmarshal(drain(t, recipient), &frame))
	assert.Equal(t, EventDelivery, frame.Event)
	assert.JSONEq(t, `{"recipient":{"_id":"bob"},"content":"hi bob"}`, string(frame.Data))
	assert.Empty(t, sender.send)
}

func TestMessageWithoutRecipientIsDropped(t *testing.T) {
	hub := NewHub(testLogger())
	sender := newTestClient(hub, "alice")
	listener := newTestClient(hub, "bob")
	sender.handleFrame([]byte(`{"event":"setup","data":{"_id":"alice"}}`))
	listener.handleFrame([]byte(`{"event":"setup","data":{"_id":"bob"}}`))
	drain(t, sender)
	drain(t, listener)

	sender.handleFrame([]byte(`{"event":"message","data":{"content":"to nobody"}}`))
	assert.Empty(t, listener.send)
}

func TestMessageFromUnidentifiedConnectionIsDropped(t *testing.T) {
	hub := NewHub(testLogger())
	sender := newTestClient(hub, "alice") // never sent setup
	listener := newTestClient(hub, "bob")
	listener.handleFrame([]byte(`{"event":"setup","data":{"_id":"bob"}}`))
	drain(t, listener)

	sender.handleFrame([]byte(`{"event":"message","data":{"recipient":{"_id":"bob"},"content":"hi"}}`))
	assert.Empty(t, listener.send)
}

func TestJoinSubscribesRoom(t *testing.T) {
	hub := NewHub(testLogger())
	c := newTestClient(hub, "bob")
	c.handleFrame([]byte(`{"event":"setup","data":{"_id":"bob"}}`))
	drain(t, c)

	c.handleFrame([]byte(`{"event":"join","data":"conv-42"}`))
	assert.Contains(t, c.channels, roomChannel("conv-42"))

	c.handleFrame([]byte(`{"event":"join","data":{"room":"conv-43"}}`))
	assert.Contains(t, c.channels, roomChannel("conv-43"))
}

func TestMalformedFramesKeepConnectionUsable(t *testing.T) {
	hub := NewHub(testLogger())
	c := newTestClient(hub, "bob")

	c.handleFrame([]byte(`not json`))
	c.handleFrame([]byte(`{"event":"bogus"}`))
	c.handleFrame([]byte(`{"event":"setup","data":{"_id":"bob"}}`))

	assert.Equal(t, 1, hub.Connections("bob"))
}

func TestCheckOriginHonorsConfiguredOrigins(t *testing.T) {
	h := Handler{AllowedOrigins: []string{"https://portal.campus.edu"}, Logger: testLogger()}

	allowed := httptest.NewRequest(http.MethodGet, "/ws", nil)
	allowed.Header.Set("Origin", "https://Portal.Campus.EDU")
	assert.True(t, h.checkOrigin(allowed))

	foreign := httptest.NewRequest(http.MethodGet, "/ws", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	assert.False(t, h.checkOrigin(foreign))
}

func TestCheckOriginOpenWithoutConfig(t *testing.T) {
	h := Handler{Logger: testLogger()}

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Origin", "https://anywhere.example")
	assert.True(t, h.checkOrigin(r))

	// Non-browser clients send no Origin header and always pass.
	restricted := Handler{AllowedOrigins: []string{"https://portal.campus.edu"}, Logger: testLogger()}
	assert.True(t, restricted.checkOrigin(httptest.NewRequest(http.MethodGet, "/ws", nil)))
}
