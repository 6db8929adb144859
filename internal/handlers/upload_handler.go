package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/handloom-catalog/internal/media"
)

// multipartOverhead leaves room for the boundary and headers around the file part.
const multipartOverhead = 1 << 20

// UploadImage handles POST /upload-image
// It stores the "image" field and returns the relative URL to save on the product.
func (h *Handlers) UploadImage(c *gin.Context) {
	// 1. Cap the body so oversized uploads fail early
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Uploads.MaxBytes+multipartOverhead)

	// 2. Get the file from the request
	file, err := c.FormFile("image")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			fail(c, http.StatusBadRequest, "File too large. Maximum size is "+h.Uploads.MaxSizeLabel())
			return
		}
		fail(c, http.StatusBadRequest, "No image file provided")
		return
	}

	// 3. Validate and save
	stored, err := h.Uploads.Save(file)
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		fail(c, http.StatusBadRequest, "Invalid file type. Only JPG, PNG, GIF, and WebP allowed")
		return
	case errors.Is(err, media.ErrTooLarge):
		fail(c, http.StatusBadRequest, "File too large. Maximum size is "+h.Uploads.MaxSizeLabel())
		return
	case errors.Is(err, media.ErrNoFile):
		fail(c, http.StatusBadRequest, "No image file provided")
		return
	case err != nil:
		h.log.Error().Err(err).Msg("image upload failed")
		fail(c, http.StatusInternalServerError, "Failed to save uploaded file")
		return
	}

	// 4. Return the public URL
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image uploaded successfully",
		"data":    stored,
	})
}
