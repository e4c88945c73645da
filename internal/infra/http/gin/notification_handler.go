package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	notifysvc "stuverse/internal/app/services/notify"
)

type NotificationHTTP interface {
	List(c *gin.Context)
	MarkAllRead(c *gin.Context)
}

type NotificationHandler struct {
	Service *notifysvc.Service
	Logger  *slog.Logger
}

func (h NotificationHandler) List(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := h.Service.List(c.Request.Context(), user.ID)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Error("list notifications failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		if h.Logger != nil {
			h.Logger.Error("mark notifications read failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

var _ NotificationHTTP = NotificationHandler{}
