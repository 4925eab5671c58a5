package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/signboard/api"
	"github.com/dfryer1193/signboard/display/application"
	"github.com/dfryer1193/signboard/display/domain"
	"github.com/dfryer1193/signboard/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type DisplayHandler struct {
	service     *application.DisplayService
	adminSecret string
}

func NewDisplayHandler(service *application.DisplayService, adminSecret string) *DisplayHandler {
	return &DisplayHandler{
		service:     service,
		adminSecret: adminSecret,
	}
}

// GetImage returns the URL of the current image.
func (h *DisplayHandler) GetImage(c *gin.Context) {
	c.JSON(http.StatusOK, api.ImageResponse{
		ImageURL: h.service.ImageURL(h.service.Current()),
	})
}

// UpdateImage commits a new current image by name. The name is not checked
// against the store; an update referencing an unknown file still commits
// and broadcasts.
func (h *DisplayHandler) UpdateImage(c *gin.Context) {
	req := &api.UpdateImageRequest{}
	if err := c.ShouldBindJSON(req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	if _, err := h.service.SetCurrent(req.Image); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image provided"})
		return
	}

	c.JSON(http.StatusOK, api.UpdateImageResponse{Message: "Image updated"})
}

// ListImages returns the stored image names plus the current selection.
func (h *DisplayHandler) ListImages(c *gin.Context) {
	images, current, err := h.service.ListImages(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list images")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list images"})
		return
	}

	c.JSON(http.StatusOK, api.ImageListResponse{
		Images:  images,
		Current: current,
	})
}

// Login verifies the shared secret and echoes it back as the bearer token.
// No session state exists; the token is the secret.
func (h *DisplayHandler) Login(c *gin.Context) {
	req := &api.LoginRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if !middleware.SecretMatches(h.adminSecret, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, api.LoginResponse{Token: req.Password})
}

// UploadImage ingests a multipart file, stores it, and makes it current.
// The route is gated by middleware.RequireSecret.
func (h *DisplayHandler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	img, err := h.service.Upload(c.Request.Context(), header.Filename, file)
	switch {
	case errors.Is(err, domain.ErrInvalidFileType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
		return
	case errors.Is(err, domain.ErrNoImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	case errors.Is(err, domain.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	case err != nil:
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to store upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}

	c.JSON(http.StatusCreated, api.UploadResponse{
		Message:  "Image uploaded",
		Filename: img.Name,
		ImageURL: h.service.ImageURL(img.Name),
	})
}
