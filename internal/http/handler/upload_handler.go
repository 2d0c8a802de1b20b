package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/upload"
)

// UploadHandler accepts multipart file uploads.
type UploadHandler struct {
	Store *upload.Store
}

// NewUploadHandler creates the handler.
func NewUploadHandler(store *upload.Store) *UploadHandler {
	return &UploadHandler{Store: store}
}

// Upload stores the "file" form part under the optional "folder" form field.
func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload_rejected", "error_description": upload.ErrNoFile.Error()})
		return
	}

	result, err := h.Store.Save(header, c.PostForm("folder"))
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNoFile),
			errors.Is(err, upload.ErrDisallowedType),
			errors.Is(err, upload.ErrTooLarge),
			errors.Is(err, upload.ErrInvalidFolder):
			c.JSON(http.StatusBadRequest, gin.H{"error": "upload_rejected", "error_description": err.Error()})
		default:
			respondError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File uploaded successfully", "file": result})
}
