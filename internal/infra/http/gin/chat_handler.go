package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	chatsvc "stuverse/internal/app/services/chat"
	domainchat "stuverse/internal/domain/chat"
	domainuser "stuverse/internal/domain/user"
)

type ChatHTTP interface {
	Conversations(c *gin.Context)
	History(c *gin.Context)
	Send(c *gin.Context)
}

type ChatHandler struct {
	Service *chatsvc.Service
	Logger  *slog.Logger
}

type sendMessageRequest struct {
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
}

func (h ChatHandler) Conversations(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	conversations, err := h.Service.Conversations(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": conversations})
}

func (h ChatHandler) History(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	counterpart := strings.TrimSpace(c.Param("userId"))
	if counterpart == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}
	views, err := h.Service.History(c.Request.Context(), user.ID, domainuser.ID(counterpart))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h ChatHandler) Send(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.Service.Send(c.Request.Context(), user.ID, domainuser.ID(strings.TrimSpace(req.Recipient)), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h ChatHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
	case errors.Is(err, domainchat.ErrEmptyContent),
		errors.Is(err, domainchat.ErrRecipientRequired),
		errors.Is(err, domainchat.ErrSenderRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("chat operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ ChatHTTP = ChatHandler{}
