package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"github.com/lifelog-labs/lifelog/backend/internal/diaries"
	"github.com/lifelog-labs/lifelog/backend/internal/timefmt"
)

type diaryPayload struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Date       string `json:"date"`
	Mood       string `json:"mood"`
	CoreEvent  string `json:"coreEvent"`
	Reflection string `json:"reflection"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

func renderDiary(entry diaries.Diary) diaryPayload {
	return diaryPayload{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Date:       timefmt.Format(entry.Date),
		Mood:       entry.Mood,
		CoreEvent:  entry.CoreEvent,
		Reflection: entry.Reflection,
		CreatedAt:  timefmt.Format(entry.CreatedAt),
		UpdatedAt:  timefmt.Format(entry.UpdatedAt),
	}
}

type diaryUpsertRequest struct {
	Date       string `json:"date"`
	Mood       string `json:"mood"`
	CoreEvent  string `json:"coreEvent"`
	Reflection string `json:"reflection"`
}

func (h *httpHandler) handleListDiaries(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	results, err := h.diaries.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	payloads := make([]diaryPayload, 0, len(results))
	for _, entry := range results {
		payloads = append(payloads, renderDiary(entry))
	}
	c.JSON(http.StatusOK, gin.H{"code": successCode, "data": payloads})
}

func (h *httpHandler) handleUpsertDiary(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	var request diaryUpsertRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, h.logger, apperrors.InvalidArgument("invalid request body"))
		return
	}

	var date time.Time
	if raw := strings.TrimSpace(request.Date); raw != "" {
		parsed, err := timefmt.ParseInput(raw)
		if err != nil {
			writeError(c, h.logger, apperrors.InvalidArgument("invalid date"))
			return
		}
		date = parsed
	}

	entry, err := h.diaries.Upsert(c.Request.Context(), userID, diaries.UpsertInput{
		Date:       date,
		Mood:       request.Mood,
		CoreEvent:  request.CoreEvent,
		Reflection: request.Reflection,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": successCode, "message": "diary saved", "data": renderDiary(entry)})
}
