package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"stuverse/internal/app/dto"
	lostsvc "stuverse/internal/app/services/lostfound"
	domainlost "stuverse/internal/domain/lostfound"
	"stuverse/internal/infra/storage/s3"
)

type LostFoundHTTP interface {
	Browse(c *gin.Context)
	Report(c *gin.Context)
	Resolve(c *gin.Context)
}

type LostFoundHandler struct {
	Service  *lostsvc.Service
	Uploader s3.Uploader
	Logger   *slog.Logger
}

// Browse supports an optional "near me" filter via lat, lng and radius (km)
// query params.
func (h LostFoundHandler) Browse(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var near *domainlost.Near
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw != "" && lngRaw != "" {
		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lng, errLng := strconv.ParseFloat(lngRaw, 64)
		if errLat != nil || errLng != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
			return
		}
		near = &domainlost.Near{Lat: lat, Lng: lng}
		if radius, err := strconv.ParseFloat(c.Query("radius"), 64); err == nil {
			near.RadiusKm = radius
		}
	}
	views, err := h.Service.Browse(c.Request.Context(), user, near)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapLostItemCollection(views))
}

// Report reads a multipart form: text fields plus an optional photo.
func (h LostFoundHandler) Report(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	params := lostsvc.ReportParams{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		Type:        domainlost.ItemType(c.PostForm("type")),
		Coordinates: parseCoordinates(c.PostForm("lat"), c.PostForm("lng")),
	}
	if raw := strings.TrimSpace(c.PostForm("date")); raw != "" {
		date, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if date, err = time.Parse("2006-01-02", raw); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
				return
			}
		}
		params.Date = date
	}
	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, err := uploadFormFile(c, h.Uploader, "lostfound", file)
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("lost item image upload failed", "user", user.ID, "error", err)
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		params.Image = url
	}
	item, err := h.Service.Report(c.Request.Context(), user, params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapLostItem(item, user.Summary()))
}

func (h LostFoundHandler) Resolve(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Resolve(c.Request.Context(), user.ID, domainlost.ID(c.Param("id"))); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domainlost.StatusResolved)})
}

func (h LostFoundHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainlost.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
	case errors.Is(err, domainlost.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your report"})
	case errors.Is(err, domainlost.ErrTitleRequired),
		errors.Is(err, domainlost.ErrDescriptionRequired),
		errors.Is(err, domainlost.ErrLocationRequired),
		errors.Is(err, domainlost.ErrDateRequired),
		errors.Is(err, domainlost.ErrInvalidItemType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("lost-and-found operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

var _ LostFoundHTTP = LostFoundHandler{}
