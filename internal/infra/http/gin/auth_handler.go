package ginserver

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"stuverse/internal/app/dto"
	authsvc "stuverse/internal/app/services/auth"
	domainuser "stuverse/internal/domain/user"
	"stuverse/internal/infra/storage/s3"
)

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Profile(c *gin.Context)
	UpdateProfile(c *gin.Context)
}

type AuthHandler struct {
	Service   *authsvc.Service
	Uploader  s3.Uploader
	CookieTTL time.Duration
	Logger    *slog.Logger
}

type registerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	University string `json:"university"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.Service.Register(c.Request.Context(), authsvc.RegisterParams{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		University: req.University,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusCreated, dto.NewAuthResponse(result.User, result.Token))
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.Service.Login(c.Request.Context(), authsvc.LoginParams{
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
	})
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	h.setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, dto.NewAuthResponse(result.User, result.Token))
}

// Logout only clears the cookie; tokens are stateless and expire on their
// own.
func (h AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Profile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(user))
}

// UpdateProfile accepts multipart form fields plus an optional avatar image.
func (h AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	update := domainuser.ProfileUpdate{
		Name:       c.PostForm("name"),
		University: c.PostForm("university"),
		Bio:        c.PostForm("bio"),
	}
	if file, err := c.FormFile("avatar"); err == nil && file != nil {
		url, err := uploadFormFile(c, h.Uploader, "avatars", file)
		if err != nil {
			if h.Logger != nil {
				h.Logger.Warn("avatar upload failed", "user", user.ID, "error", err)
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "avatar upload failed"})
			return
		}
		update.Avatar = url
	}
	updated, err := h.Service.UpdateProfile(c.Request.Context(), user.ID, update)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(updated))
}

func (h AuthHandler) setSessionCookie(c *gin.Context, token string) {
	ttl := h.CookieTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	c.SetCookie(sessionCookie, token, int(ttl/time.Second), "/", "", false, true)
}

func (h AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, authsvc.ErrPasswordTooShort),
		errors.Is(err, domainuser.ErrEmailRequired),
		errors.Is(err, domainuser.ErrNameRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainuser.ErrEmailAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domainuser.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		if h.Logger != nil {
			h.Logger.Error("auth operation failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func uploadFormFile(c *gin.Context, uploader s3.Uploader, prefix string, file *multipart.FileHeader) (string, error) {
	if uploader == nil {
		return "", errors.New("uploads not configured")
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	key := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), strings.ToLower(filepath.Ext(file.Filename)))
	return uploader.Upload(c.Request.Context(), key, src, file.Header.Get("Content-Type"))
}

var _ AuthHTTP = AuthHandler{}
