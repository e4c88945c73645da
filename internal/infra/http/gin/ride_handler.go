package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"stuverse/internal/app/dto"
	ridesvc "stuverse/internal/app/services/rides"
	domainrides "stuverse/internal/domain/rides"
)

type RideHTTP interface {
	Browse(c *gin.Context)
	Create(c *gin.Context)
	Join(c *gin.Context)
	Leave(c *gin.Context)
}

type RideHandler struct {
	Service *ridesvc.Service
	Logger  *slog.Logger
}

type createRideRequest struct {
	Type        string    `json:"type"`
	Origin      string    `json:"origin"`
	OriginLat   float64   `json:"originLat"`
	OriginLng   float64   `json:"originLng"`
	Destination string    `json:"destination"`
	DestLat     float64   `json:"destLat"`
	DestLng     float64   `json:"destLng"`
	Date        time.Time `json:"date"`
	Seats       int       `json:"seats"`
	Price       float64   `json:"price"`
	Vehicle     string    `json:"vehicle"`
	Description string    `json:"description"`
}

func (h RideHandler) Browse(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := h.Service.Browse(c.Request.Context(), user, ridesvc.BrowseParams{
		Type:        domainrides.RideType(c.Query("type")),
		Destination: c.Query("destination"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRideCollection(views))
}

func (h RideHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req createRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	ride, err := h.Service.Create(c.Request.Context(), user, ridesvc.CreateParams{
		Type:        domainrides.RideType(req.Type),
		OriginName:  req.Origin,
		OriginLat:   req.OriginLat,
		OriginLng:   req.OriginLng,
		DestName:    req.Destination,
		DestLat:     req.DestLat,
		DestLng:     req.DestLng,
		Date:        req.Date,
		Seats:       req.Seats,
		Price:       req.Price,
		Vehicle:     req.Vehicle,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	view := ridesvc.RideView{Ride: ride, Host: user.Summary()}
	c.JSON(http.StatusCreated, dto.MapRide(&view))
}

func (h RideHandler) Join(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	view, err := h.Service.Join(c.Request.Context(), user, domainrides.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapRide(view))
}

func (h RideHandler) Leave(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Leave(c.Request.Context(), user.ID, domainrides.ID(c.Param("id"))); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h RideHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainrides.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ride not found"})
	case errors.Is(err, domainrides.ErrNotOpen),
		errors.Is(err, domainrides.ErrOwnRide),
		errors.Is(err, domainrides.ErrAlreadyJoined),
		errors.Is(err, domainrides.ErrFull):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainrides.ErrOriginRequired),
		errors.Is(err, domainrides.ErrDestinationRequired),
		errors.Is(err, domainrides.ErrDateRequired),
		errors.Is(err, domainrides.ErrInvalidSeats),
		errors.Is(err, domainrides.ErrInvalidPrice),
		errors.Is(err, domainrides.ErrInvalidRideType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("ride operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ RideHTTP = RideHandler{}
