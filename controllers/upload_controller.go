package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/tna-tracker-api/services"
	"github.com/kendall-kelly/tna-tracker-api/utils"
)

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves item images
// stored on local disk. Only available when no S3 bucket is configured.
func (ctl *Controller) GetUploadedImage(c *gin.Context) {
	local, ok := ctl.images.(*services.LocalImageService)
	if !ok {
		errorJSON(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	filename := c.Param("filename")
	if filename == "" {
		errorJSON(c, http.StatusBadRequest, "INVALID_REQUEST", "Filename is required")
		return
	}

	// Prevent directory traversal
	if strings.Contains(filename, "..") || strings.Contains(filename, "/") || strings.Contains(filename, "\\") {
		errorJSON(c, http.StatusBadRequest, "INVALID_FILENAME", "Invalid filename")
		return
	}

	contentType := utils.ImageContentType(filename)
	if contentType == "application/octet-stream" {
		errorJSON(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Only .png, .jpg and .jpeg files are supported")
		return
	}

	filePath := filepath.Join(local.Dir(), filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		errorJSON(c, http.StatusNotFound, "FILE_NOT_FOUND", "Image not found")
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400") // Cache for 24 hours
	c.File(filePath)
}
