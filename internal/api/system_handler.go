package api

import (
	"net/http"

	"fitcoach/assistant-app/internal/corpus"
	"fitcoach/assistant-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves operational endpoints: collection status and the
// admin-only corpus reindex.
type SystemHandler struct {
	retrievalService service.RetrievalService
	loader           *corpus.Loader
	dataDir          string
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(retrievalService service.RetrievalService, loader *corpus.Loader, dataDir string) *SystemHandler {
	return &SystemHandler{retrievalService: retrievalService, loader: loader, dataDir: dataDir}
}

// Status reports per-collection document counts and the plan cache
// size.
func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"collections":  h.retrievalService.Status(c.Request.Context()),
		"cached_plans": h.retrievalService.CacheSize(),
	})
}

// Reindex re-reads the corpus source files into the store and plan
// cache. Queries keep answering from the previous data while it runs;
// records are overwritten in place and the cache is swapped atomically
// at the end.
func (h *SystemHandler) Reindex(c *gin.Context) {
	summary, err := h.loader.Load(c.Request.Context(), h.dataDir)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Reindex failed")
		return
	}
	c.JSON(http.StatusOK, summary)
}
