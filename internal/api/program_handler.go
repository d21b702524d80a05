package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ProgramHandler drives the per-user program state machine over HTTP.
// Every route requires authentication; the user id always comes from
// the token, never from the request body.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- Request/Response Structs ---

// ProfileRequest carries already-parsed profile fields. Free-text
// parsing happens in the messaging layer upstream of this API.
type ProfileRequest struct {
	Age           int           `json:"age" binding:"omitempty,min=10,max=100"`
	Gender        domain.Gender `json:"gender" binding:"omitempty,oneof=male female"`
	Height        int           `json:"height" binding:"omitempty,min=100,max=250"`
	Weight        int           `json:"weight" binding:"omitempty,min=30,max=300"`
	ActivityLevel int           `json:"activity_level" binding:"omitempty,min=1,max=4"`
	Limitations   string        `json:"limitations"`
	Goal          domain.Goal   `json:"goal" binding:"omitempty,oneof=gain_mass lose_fat maintain"`
}

// --- Handler Methods ---

// StartProfile begins (or restarts) profile collection.
func (h *ProgramHandler) StartProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	program, err := h.programService.StartProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProgramActive) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to start profile collection")
		return
	}
	c.JSON(http.StatusCreated, program)
}

// SubmitProfile merges submitted profile fields; when the profile
// becomes complete the program activates at week 1, day 1.
func (h *ProgramHandler) SubmitProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update, err := h.programService.SubmitProfile(c.Request.Context(), userID, domain.Profile{
		Age:           req.Age,
		Gender:        req.Gender,
		Height:        req.Height,
		Weight:        req.Weight,
		ActivityLevel: req.ActivityLevel,
		Limitations:   req.Limitations,
		Goal:          req.Goal,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, update)
}

// RequestWorkout issues the rendered workout for the user's current
// program day.
func (h *ProgramHandler) RequestWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	message, err := h.programService.RequestWorkout(c.Request.Context(), userID)
	if err != nil {
		h.abortProgramError(c, err, "Failed to prepare workout")
		return
	}
	c.JSON(http.StatusOK, message)
}

// CompleteWorkout records a completion event and advances the program.
func (h *ProgramHandler) CompleteWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	message, err := h.programService.CompleteWorkout(c.Request.Context(), userID)
	if err != nil {
		h.abortProgramError(c, err, "Failed to record workout completion")
		return
	}
	c.JSON(http.StatusOK, message)
}

// ShowCard returns the user's progress card.
func (h *ProgramHandler) ShowCard(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	card, err := h.programService.ShowCard(c.Request.Context(), userID)
	if err != nil {
		h.abortProgramError(c, err, "Failed to build progress card")
		return
	}
	c.JSON(http.StatusOK, card)
}

// Reset deletes all program state for the user. Resetting a user that
// never started still returns 204.
func (h *ProgramHandler) Reset(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	if err := h.programService.Reset(c.Request.Context(), userID); err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to reset program")
		return
	}
	c.Status(http.StatusNoContent)
}

// abortProgramError maps the program state machine's sentinel errors to
// HTTP statuses.
func (h *ProgramHandler) abortProgramError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNoProfile):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrProfileIncomplete):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
