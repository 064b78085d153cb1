package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"github.com/lifelog-labs/lifelog/backend/internal/habits"
	"github.com/lifelog-labs/lifelog/backend/internal/timefmt"
)

type habitPayload struct {
	ID            string   `json:"id"`
	UserID        string   `json:"userId"`
	Name          string   `json:"name"`
	Frequency     string   `json:"frequency"`
	Target        string   `json:"target"`
	CurrentStreak int      `json:"currentStreak"`
	MaxStreak     int      `json:"maxStreak"`
	CheckIns      []string `json:"checkIns"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

func renderHabit(habit habits.Habit) habitPayload {
	checkIns := make([]string, 0, len(habit.CheckIns))
	for _, checkIn := range habit.CheckIns {
		checkIns = append(checkIns, timefmt.Format(checkIn))
	}
	return habitPayload{
		ID:            habit.ID,
		UserID:        habit.UserID,
		Name:          habit.Name,
		Frequency:     habit.Frequency,
		Target:        habit.Target,
		CurrentStreak: habit.CurrentStreak,
		MaxStreak:     habit.MaxStreak,
		CheckIns:      checkIns,
		CreatedAt:     timefmt.Format(habit.CreatedAt),
		UpdatedAt:     timefmt.Format(habit.UpdatedAt),
	}
}

type habitCreateRequest struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	Target    string `json:"target"`
}

func (h *httpHandler) handleListHabits(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	results, err := h.habits.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	payloads := make([]habitPayload, 0, len(results))
	for _, habit := range results {
		payloads = append(payloads, renderHabit(habit))
	}
	c.JSON(http.StatusOK, gin.H{"code": successCode, "data": payloads})
}

func (h *httpHandler) handleCreateHabit(c *gin.Context) {
	userID := c.GetString(userIDContextKey)

	var request habitCreateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		writeError(c, h.logger, apperrors.InvalidArgument("invalid request body"))
		return
	}

	habit, err := h.habits.Create(c.Request.Context(), userID, habits.CreateInput{
		Name:      request.Name,
		Frequency: request.Frequency,
		Target:    request.Target,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": successCode, "message": "habit created", "data": renderHabit(habit)})
}

func (h *httpHandler) handleCheckInHabit(c *gin.Context) {
	userID := c.GetString(userIDContextKey)
	habit, err := h.habits.CheckIn(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": successCode, "message": "checked in", "data": renderHabit(habit)})
}
