package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"github.com/lifelog-labs/lifelog/backend/internal/notes"
	"github.com/lifelog-labs/lifelog/backend/internal/timefmt"
)

type notePayload struct {
	ID        string   `json:"id"`
	UserID    string   `json:"userId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func renderNote(note notes.Note) notePayload {
	images := note.Images
	if images == nil {
		images = []string{}
	}
	return notePayload{
		ID:        note.ID,
		UserID:    note.UserID,
		Title:     note.Title,
		Content:   note.Content,
		Images:    images,
		CreatedAt: timefmt.Format(note.CreatedAt),
		UpdatedAt: timefmt.Format(note.UpdatedAt),
	}
}

func renderNotes(results []notes.Note) []notePayload {
	payloads := make([]notePayload, 0, len(results))
	for _, note := range results {
		payloads = append(payloads, renderNote(note))
	}
	return payloads
}

type noteWriteRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

type notePatchRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Images  *[]string `json:"images"`
}

func (h *httpHandler) handleListNotes(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)
	pageSize := queryInt(c, "pageSize", limit)

	results, total, err := h.notes.List(c.Request.Context(), userID, notes.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", notes.DefaultSort),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	c.JSON(http.StatusOK, gin.H{
		"code":  successCode,
		"data":  renderNotes(results),
		"total": total,
		"pagination": gin.H{
			"page":  page,
			"limit": pageSize,
			"total": total,
			"pages": pages,
		},
	})
}

func (h *httpHandler) handleGetNote(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	note, err := h.notes.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": successCode, "data": renderNote(note)})
}

func (h *httpHandler) handleCreateNote(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	var request noteWriteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, h.logger, apperrors.InvalidArgument("invalid request body"))
		return
	}

	note, err := h.notes.Create(c.Request.Context(), userID, notes.CreateInput{
		Title:   request.Title,
		Content: request.Content,
		Images:  request.Images,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": successCode, "message": "note created", "data": renderNote(note)})
}

func (h *httpHandler) handleReplaceNote(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	var request noteWriteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, h.logger, apperrors.InvalidArgument("invalid request body"))
		return
	}

	note, err := h.notes.Replace(c.Request.Context(), userID, c.Param("id"), notes.CreateInput{
		Title:   request.Title,
		Content: request.Content,
		Images:  request.Images,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": successCode, "message": "note updated", "data": renderNote(note)})
}

func (h *httpHandler) handlePatchNote(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	var request notePatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, h.logger, apperrors.InvalidArgument("invalid request body"))
		return
	}

	note, err := h.notes.Update(c.Request.Context(), userID, c.Param("id"), notes.PatchInput{
		Title:   request.Title,
		Content: request.Content,
		Images:  request.Images,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": successCode, "message": "note updated", "data": renderNote(note)})
}

func (h *httpHandler) handleDeleteNote(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	note, err := h.notes.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": successCode, "message": "note deleted", "data": renderNote(note)})
}

// queryInt parses a positive integer query parameter, falling back to the
// default on absence or malformed input.
func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
