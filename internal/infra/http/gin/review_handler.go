package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	reviewsvc "stuverse/internal/app/services/reviews"
	domainmarket "stuverse/internal/domain/market"
	domainreviews "stuverse/internal/domain/reviews"
)

type ReviewHTTP interface {
	Submit(c *gin.Context)
	ListByListing(c *gin.Context)
}

type ReviewHandler struct {
	Service *reviewsvc.Service
	Logger  *slog.Logger
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h ReviewHandler) Submit(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.Service.Submit(c.Request.Context(), user, domainmarket.ID(c.Param("id")), req.Rating, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h ReviewHandler) ListByListing(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	views, err := h.Service.ByListing(c.Request.Context(), domainmarket.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

func (h ReviewHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainreviews.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainmarket.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
	default:
		if h.Logger != nil {
			h.Logger.Error("review operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ ReviewHTTP = ReviewHandler{}
