package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	buzzsvc "stuverse/internal/app/services/buzz"
	domainbuzz "stuverse/internal/domain/buzz"
)

type BuzzHTTP interface {
	Feed(c *gin.Context)
	Post(c *gin.Context)
	ToggleLike(c *gin.Context)
}

type BuzzHandler struct {
	Service *buzzsvc.Service
	Logger  *slog.Logger
}

type createBuzzRequest struct {
	Content string `json:"content"`
	Color   string `json:"color"`
}

func (h BuzzHandler) Feed(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := h.Service.Feed(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h BuzzHandler) Post(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createBuzzRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.Service.Post(c.Request.Context(), user, req.Content, req.Color)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h BuzzHandler) ToggleLike(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.Service.ToggleLike(c.Request.Context(), user.ID, domainbuzz.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h BuzzHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainbuzz.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, domainbuzz.ErrEmptyContent),
		errors.Is(err, domainbuzz.ErrContentTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("buzz operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ BuzzHTTP = BuzzHandler{}
