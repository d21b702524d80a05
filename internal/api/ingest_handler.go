package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/ingest"
	"fitcoach/assistant-app/internal/repository"
	"fitcoach/assistant-app/internal/storage"
	"fitcoach/assistant-app/internal/tempfiles"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IngestHandler accepts knowledge document uploads, runs them through
// the ingestion pipeline and archives the originals in object storage.
type IngestHandler struct {
	ingestService *ingest.Service
	tempDir       *tempfiles.Dir
	fileStorage   storage.FileStorage
	uploadRepo    repository.UploadRepository
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestService *ingest.Service, tempDir *tempfiles.Dir, fileStorage storage.FileStorage, uploadRepo repository.UploadRepository) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		tempDir:       tempDir,
		fileStorage:   fileStorage,
		uploadRepo:    uploadRepo,
	}
}

// --- Response Structs ---

type UploadResponse struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	ChunksIndexed int    `json:"chunks_indexed"`
}

type DownloadURLResponse struct {
	URL string `json:"url"`
}

// --- Handler Methods ---

// UploadDocument receives a multipart document, indexes it and archives
// the original. Ingestion failures come back as 422 with the pipeline's
// structured error, not as a bare 500.
func (h *IngestHandler) UploadDocument(c *gin.Context) {
	userID, err := getAuthedObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Missing 'file' form field")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	defer src.Close()

	tempPath, err := h.tempDir.Save(fileHeader.Filename, src)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to stage uploaded file")
		return
	}
	defer h.tempDir.Remove(tempPath)

	result := h.ingestService.IngestFile(c.Request.Context(), tempPath)
	if !result.Success {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, result)
		return
	}

	objectKey := fmt.Sprintf("documents/%s/%s_%s", userID.Hex(), uuid.New().String(), filepath.Base(fileHeader.Filename))
	if err := h.archiveOriginal(c, tempPath, objectKey, fileHeader.Header.Get("Content-Type")); err != nil {
		// The chunks are already searchable; losing the archive copy is
		// logged but does not fail the upload.
		log.Printf("WARN: failed to archive document %s: %v", fileHeader.Filename, err)
		objectKey = ""
	}

	upload := &domain.Upload{
		UserID:        userID,
		S3ObjectKey:   objectKey,
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Size:          fileHeader.Size,
		ChunksIndexed: result.ChunksIndexed,
		UploadedAt:    time.Now().UTC(),
	}
	uploadID, err := h.uploadRepo.Create(c.Request.Context(), upload)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to record upload metadata")
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{
		ID:            uploadID.Hex(),
		Filename:      result.Filename,
		ChunksIndexed: result.ChunksIndexed,
	})
}

// ListDocuments returns the caller's upload history, newest first.
func (h *IngestHandler) ListDocuments(c *gin.Context) {
	userID, err := getAuthedObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	uploads, err := h.uploadRepo.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list uploads")
		return
	}
	if uploads == nil {
		uploads = []domain.Upload{}
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// GetDownloadURL returns a short-lived presigned URL for the archived
// original document.
func (h *IngestHandler) GetDownloadURL(c *gin.Context) {
	userID, err := getAuthedObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	uploadID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid upload ID format")
		return
	}

	upload, err := h.uploadRepo.GetByID(c.Request.Context(), uploadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			abortWithError(c, http.StatusNotFound, "Upload not found")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load upload metadata")
		}
		return
	}
	if upload.UserID != userID {
		abortWithError(c, http.StatusForbidden, "Upload belongs to another user")
		return
	}
	if upload.S3ObjectKey == "" {
		abortWithError(c, http.StatusNotFound, "Original document was not archived")
		return
	}

	url, err := h.fileStorage.GeneratePresignedDownloadURL(c.Request.Context(), upload.S3ObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		return
	}
	c.JSON(http.StatusOK, DownloadURLResponse{URL: url})
}

func (h *IngestHandler) archiveOriginal(c *gin.Context, path, objectKey, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return h.fileStorage.PutObject(c.Request.Context(), objectKey, f, contentType)
}

func getAuthedObjectID(c *gin.Context) (primitive.ObjectID, error) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(idStr)
}
