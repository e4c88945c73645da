package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	authsvc "stuverse/internal/app/services/auth"
	domainuser "stuverse/internal/domain/user"
)

const principalContextKey = "stuverse.principal"

// sessionCookie carries the token for browser clients; API clients use the
// Authorization header.
const sessionCookie = "jwt"

type AuthMiddleware struct {
	Service *authsvc.Service
	Logger  *slog.Logger
}

// Handle resolves the caller from a bearer token or session cookie. Requests
// without a valid token pass through anonymous; handlers that need identity
// use requireUser.
func (m AuthMiddleware) Handle(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			token = cookie
		}
	}
	if token == "" || m.Service == nil {
		c.Next()
		return
	}
	resolved, err := m.Service.Resolve(c.Request.Context(), token)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token validation failed", "error", err)
		}
		c.Next()
		return
	}
	c.Set(principalContextKey, resolved)
	c.Next()
}

func currentUser(c *gin.Context) (*domainuser.User, bool) {
	val, exists := c.Get(principalContextKey)
	if !exists {
		return nil, false
	}
	u, ok := val.(*domainuser.User)
	return u, ok
}

func requireUser(c *gin.Context) (*domainuser.User, bool) {
	u, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "auth required"})
		return nil, false
	}
	return u, true
}

func extractBearerToken(header string) string {
	if header == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
