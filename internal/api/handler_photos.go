package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadPhoto stores a label photo and returns its serving URL, for use as
// the photo_url of a shelf-life item.
func (h *Handler) UploadPhoto(c *gin.Context) {
	if _, ok := h.restaurantFromPath(c); !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing photo file"})
		return
	}
	if file.Size > h.cfg.Photos.MaxSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Photo too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable photo file"})
		return
	}
	defer src.Close()

	url, err := h.photos.Save(file.Filename, src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
