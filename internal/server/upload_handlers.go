package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
)

// handleUpload stores a single image and returns its public URL. The
// request must carry an identity token like any /api route, but the
// stored file itself is not scoped to a user.
func (h *httpHandler) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		writeError(c, h.logger, apperrors.InvalidArgument("no file uploaded"))
		return
	}

	name, err := h.uploads.SaveImage(file)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	base := strings.TrimSuffix(h.baseURL, "/")
	if base == "" {
		base = "http://" + c.Request.Host
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    successCode,
		"message": "file uploaded",
		"url":     fmt.Sprintf("%s/uploads/%s", base, name),
	})
}
