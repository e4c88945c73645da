package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"stuverse/internal/app/dto"
	marketsvc "stuverse/internal/app/services/market"
	domainmarket "stuverse/internal/domain/market"
	"stuverse/internal/domain/shared/geo"
	"stuverse/internal/infra/storage/s3"
)

type MarketHTTP interface {
	Browse(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Delete(c *gin.Context)
}

type MarketHandler struct {
	Service  *marketsvc.Service
	Uploader s3.Uploader
	Logger   *slog.Logger
}

func (h MarketHandler) Browse(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := h.Service.Browse(c.Request.Context(), user, c.Query("search"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapListingCollection(views))
}

func (h MarketHandler) Get(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	view, err := h.Service.Get(c.Request.Context(), domainmarket.ID(c.Param("id")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapListing(view.Listing, view.Seller))
}

// Create reads a multipart form: text fields plus up to 3 images.
func (h MarketHandler) Create(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	params := marketsvc.CreateParams{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Condition:   domainmarket.Condition(c.PostForm("condition")),
		Type:        domainmarket.ListingType(c.PostForm("type")),
	}
	if raw := strings.TrimSpace(c.PostForm("price")); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		params.Price = price
	}
	params.Coordinates = parseCoordinates(c.PostForm("lat"), c.PostForm("lng"))

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form"})
		return
	}
	files := form.File["images"]
	if len(files) > 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most 3 images allowed"})
		return
	}
	for _, file := range files {
		url, err := uploadFormFile(c, h.Uploader, "listings", file)
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("listing image upload failed", "user", user.ID, "error", err)
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
			return
		}
		params.Images = append(params.Images, url)
	}

	listing, err := h.Service.Create(c.Request.Context(), user, params)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapListing(listing, user.Summary()))
}

func (h MarketHandler) Delete(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), user.ID, domainmarket.ID(c.Param("id"))); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h MarketHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainmarket.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
	case errors.Is(err, domainmarket.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not your listing"})
	case errors.Is(err, domainmarket.ErrTitleRequired),
		errors.Is(err, domainmarket.ErrDescriptionRequired),
		errors.Is(err, domainmarket.ErrCategoryRequired),
		errors.Is(err, domainmarket.ErrInvalidCondition),
		errors.Is(err, domainmarket.ErrInvalidListingType),
		errors.Is(err, domainmarket.ErrInvalidPrice),
		errors.Is(err, domainmarket.ErrTooManyImages):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		if h.Logger != nil {
			h.Logger.Error("marketplace operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseCoordinates(latRaw, lngRaw string) geo.Coordinates {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if errLat != nil || errLng != nil {
		return geo.Coordinates{}
	}
	return geo.Coordinates{Lat: lat, Lng: lng}
}

var _ MarketHTTP = MarketHandler{}
