package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/service"

	"github.com/gin-gonic/gin"
)

// RetrievalHandler exposes the read-only query surface: warmup lookup,
// semantic search and plan catalog access.
type RetrievalHandler struct {
	retrievalService service.RetrievalService
}

// NewRetrievalHandler creates a new RetrievalHandler.
func NewRetrievalHandler(retrievalService service.RetrievalService) *RetrievalHandler {
	return &RetrievalHandler{retrievalService: retrievalService}
}

// --- Request/Response Structs ---

type SearchRequest struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit"`
}

type CategoryRequest struct {
	Gender   domain.Gender `form:"gender" binding:"required,oneof=male female"`
	AgeGroup string        `form:"age_group" binding:"required"`
}

type ExactPlanRequest struct {
	Gender   domain.Gender `form:"gender" binding:"required,oneof=male female"`
	AgeGroup string        `form:"age_group" binding:"required"`
	Week     int           `form:"week" binding:"required,min=1,max=4"`
	Day      int           `form:"day" binding:"required,min=1,max=28"`
}

type ExactPlanResponse struct {
	Fidelity domain.PlanFidelity `json:"fidelity"`
	Plan     *domain.PlanRecord  `json:"plan,omitempty"`
}

// --- Handler Methods ---

// GetWarmup returns the singleton warmup routine.
func (h *RetrievalHandler) GetWarmup(c *gin.Context) {
	warmup, err := h.retrievalService.GetWarmup(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrWarmupNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch warmup routine")
		}
		return
	}
	c.JSON(http.StatusOK, warmup)
}

// SearchExercises runs a semantic search over the exercise collection.
func (h *RetrievalHandler) SearchExercises(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	matches, err := h.retrievalService.SearchExercises(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Exercise search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": matches})
}

// SearchPlans runs a semantic search over the condensed plan collection.
func (h *RetrievalHandler) SearchPlans(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	matches, err := h.retrievalService.SearchSimilarPlans(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Plan search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": matches})
}

// GetPlansByCategory lists the condensed plans for a gender and age
// group.
func (h *RetrievalHandler) GetPlansByCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plans, err := h.retrievalService.GetPlansByCategory(c.Request.Context(), req.Gender, req.AgeGroup)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list plans")
		return
	}
	if plans == nil {
		plans = []domain.CondensedPlan{}
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans, "count": len(plans)})
}

// GetExactPlan resolves the plan for one program slot and reports the
// fidelity of what it found.
func (h *RetrievalHandler) GetExactPlan(c *gin.Context) {
	var req ExactPlanRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.retrievalService.GetWorkoutPlan(c.Request.Context(), req.Gender, req.AgeGroup, req.Week, req.Day)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve plan")
		return
	}

	resp := ExactPlanResponse{Fidelity: result.Fidelity, Plan: result.Plan}
	if result.Fidelity == domain.PlanAbsent {
		c.JSON(http.StatusNotFound, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
