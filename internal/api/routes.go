package api

import (
	"net/http"

	"fitcoach/assistant-app/internal/domain" // Needed for RoleMiddleware

	"github.com/gin-gonic/gin"
)

// Handlers bundles the constructed handler set for route registration.
type Handlers struct {
	Auth      *AuthHandler
	Retrieval *RetrievalHandler
	Program   *ProgramHandler
	Ingest    *IngestHandler
	System    *SystemHandler
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	h Handlers,
) {
	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/status", h.System.Status)

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", h.Auth.Register)
			authGroup.POST("/login", h.Auth.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Retrieval Routes ---
		protected.GET("/warmup", h.Retrieval.GetWarmup)

		exerciseGroup := protected.Group("/exercises")
		{
			// GET /api/v1/exercises/search?q=...&limit=...
			exerciseGroup.GET("/search", h.Retrieval.SearchExercises)
		}

		planGroup := protected.Group("/plans")
		{
			// GET /api/v1/plans?gender=...&age_group=...
			planGroup.GET("", h.Retrieval.GetPlansByCategory)
			// GET /api/v1/plans/search?q=...&limit=...
			planGroup.GET("/search", h.Retrieval.SearchPlans)
			// GET /api/v1/plans/exact?gender=...&age_group=...&week=...&day=...
			planGroup.GET("/exact", h.Retrieval.GetExactPlan)
		}

		// --- Program Routes ---
		programGroup := protected.Group("/program")
		{
			programGroup.POST("/profile/start", h.Program.StartProfile)
			programGroup.POST("/profile", h.Program.SubmitProfile)
			programGroup.POST("/workout", h.Program.RequestWorkout)
			programGroup.POST("/workout/complete", h.Program.CompleteWorkout)
			programGroup.GET("/card", h.Program.ShowCard)
			programGroup.DELETE("", h.Program.Reset)
		}

		// --- Document Ingestion Routes ---
		documentGroup := protected.Group("/documents")
		{
			documentGroup.POST("", h.Ingest.UploadDocument)
			documentGroup.GET("", h.Ingest.ListDocuments)
			documentGroup.GET("/:id/download", h.Ingest.GetDownloadURL)
		}

		// --- Admin Routes ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			// POST /api/v1/admin/reindex
			adminGroup.POST("/reindex", h.System.Reindex)
		}
	}
}
