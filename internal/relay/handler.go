package relay

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stuverse/internal/domain/user"
)

// TokenVerifier resolves a bearer token to a user id. The relay trusts the
// resolved identity and never re-validates credentials.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler upgrades HTTP requests into live relay connections.
type Handler struct {
	Hub    *Hub
	Tokens TokenVerifier
	// AllowedOrigins restricts browser upgrades to the configured web
	// clients. Empty means any origin, for deployments without CORS config.
	AllowedOrigins []string
	Logger         *slog.Logger
}

// checkOrigin guards against cross-site websocket hijacking: the session
// cookie rides along on the upgrade, so a foreign page must not be able to
// open an authenticated socket. Requests without an Origin header are not
// browser-initiated and pass.
func (h Handler) checkOrigin(r *http.Request) bool {
	if len(h.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// Serve upgrades the request and starts the connection pumps. The connection
// starts anonymous; credentials presented at upgrade time only prime the
// identity that a later setup event activates.
func (h Handler) Serve(c *gin.Context) {
	authID := h.resolveIdentity(c)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Debug("relay: upgrade failed", "error", err)
		return
	}

	client := newClient(h.Hub, conn, authID, h.Logger)
	go client.writePump()
	go client.readPump()
}

// resolveIdentity accepts the token as a bearer header or, for browser
// websocket clients that cannot set headers, a query parameter.
func (h Handler) resolveIdentity(c *gin.Context) user.ID {
	token := c.Query("token")
	if token == "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(strings.ToLower(header), "bearer ") {
			token = strings.TrimSpace(header[7:])
		}
	}
	if token == "" && h.Tokens != nil {
		if cookie, err := c.Cookie("jwt"); err == nil {
			token = cookie
		}
	}
	if token == "" || h.Tokens == nil {
		return ""
	}
	id, err := h.Tokens.Verify(token)
	if err != nil {
		h.Logger.Debug("relay: token rejected", "error", err)
		return ""
	}
	return user.ID(id)
}
