// Package ingest is the general-purpose path for arbitrary uploaded
// text: chunking, embedding and insertion into the exercise
// collection. Uploaded knowledge is treated as exercise-domain text.
package ingest

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fitcoach/assistant-app/internal/embedding"
	"fitcoach/assistant-app/internal/store"

	"github.com/google/uuid"
)

// Supported upload extensions. Anything else is rejected with a
// structured failure result, never an error.
var supportedFormats = map[string]bool{
	".txt": true,
	".md":  true,
}

// Result is the outcome of one ingestion attempt. Failures are data,
// not errors; nothing raises past the ingestion boundary.
type Result struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename,omitempty"`
	ChunksIndexed int    `json:"chunks_indexed,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Service chunks, embeds and indexes uploaded documents.
type Service struct {
	store     store.DocumentStore
	encoder   embedding.Encoder
	chunkSize int
	overlap   int
}

func NewService(docStore store.DocumentStore, encoder embedding.Encoder, chunkSize, overlap int) *Service {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Service{store: docStore, encoder: encoder, chunkSize: chunkSize, overlap: overlap}
}

// IngestFile reads, chunks and indexes the file at path. Each chunk is
// upserted into the exercises collection carrying its source metadata.
func (s *Service) IngestFile(ctx context.Context, path string) Result {
	filename := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedFormats[ext] {
		return Result{Success: false, Filename: filename, Error: fmt.Sprintf("unsupported file format %q", ext)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Success: false, Filename: filename, Error: "failed to read document: " + err.Error()}
	}

	chunks := ChunkText(string(data), s.chunkSize, s.overlap)
	if len(chunks) == 0 {
		return Result{Success: false, Filename: filename, Error: "document contains no indexable text"}
	}

	vectors, err := s.encoder.EncodeBatch(ctx, chunks)
	if err != nil {
		return Result{Success: false, Filename: filename, Error: "embedding failed: " + err.Error()}
	}

	source, err := filepath.Abs(path)
	if err != nil {
		source = path
	}

	docID := uuid.New().String()[:8]
	records := make([]store.Record, 0, len(chunks))
	for i, chunk := range chunks {
		records = append(records, store.Record{
			ID:     fmt.Sprintf("doc_%s_%d", docID, i),
			Vector: vectors[i],
			Text:   chunk,
			Metadata: map[string]string{
				"source":   source,
				"filename": filename,
				"chunk_id": strconv.Itoa(i),
			},
		})
	}

	if err := s.store.UpsertBatch(ctx, store.CollectionExercises, records); err != nil {
		return Result{Success: false, Filename: filename, Error: "indexing failed: " + err.Error()}
	}

	log.Printf("Ingest: document %s indexed as %d chunks", filename, len(chunks))
	return Result{Success: true, Filename: filename, ChunksIndexed: len(chunks)}
}
