package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fitcoach/assistant-app/internal/store"
	"fitcoach/assistant-app/internal/store/memory"
)

type hashEncoder struct{}

func (hashEncoder) Encode(_ context.Context, text string) ([]float64, error) {
	v := make([]float64, 4)
	for i, r := range text {
		v[i%4] += float64(r)
	}
	return v, nil
}

func (e hashEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i], _ = e.Encode(ctx, t)
	}
	return out, nil
}

func (hashEncoder) Dimension() int { return 4 }

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestIngestFile(t *testing.T) {
	docStore := memory.New()
	svc := NewService(docStore, hashEncoder{}, 50, 10)
	ctx := context.Background()

	content := "Protein matters for recovery. Sleep matters even more. " +
		"Progressive overload drives adaptation over months of training."
	path := writeDoc(t, t.TempDir(), "notes.txt", content)

	result := svc.IngestFile(ctx, path)
	if !result.Success {
		t.Fatalf("result = %+v, want success", result)
	}
	if result.Filename != "notes.txt" {
		t.Errorf("filename = %q, want notes.txt", result.Filename)
	}
	if result.ChunksIndexed < 2 {
		t.Errorf("chunks = %d, want at least 2 for %d chars at size 50", result.ChunksIndexed, len(content))
	}

	count, err := docStore.Count(ctx, store.CollectionExercises)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if int(count) != result.ChunksIndexed {
		t.Errorf("store holds %d records, result says %d", count, result.ChunksIndexed)
	}

	recs, err := docStore.Dump(ctx, store.CollectionExercises)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	for i, rec := range recs {
		if !strings.HasPrefix(rec.ID, "doc_") {
			t.Errorf("record id %q lacks doc_ prefix", rec.ID)
		}
		if rec.Metadata["filename"] != "notes.txt" {
			t.Errorf("record %d filename = %q", i, rec.Metadata["filename"])
		}
		if rec.Metadata["chunk_id"] == "" {
			t.Errorf("record %d missing chunk_id", i)
		}
		if len(rec.Vector) == 0 {
			t.Errorf("record %d has no vector", i)
		}
	}
}

func TestIngestFileUnsupportedFormat(t *testing.T) {
	svc := NewService(memory.New(), hashEncoder{}, 0, 0)
	path := writeDoc(t, t.TempDir(), "report.pdf", "binary-ish")

	result := svc.IngestFile(context.Background(), path)
	if result.Success {
		t.Fatal("pdf ingestion must fail")
	}
	if !strings.Contains(result.Error, "unsupported file format") {
		t.Errorf("error = %q, want unsupported format message", result.Error)
	}
}

func TestIngestFileMissing(t *testing.T) {
	svc := NewService(memory.New(), hashEncoder{}, 0, 0)
	result := svc.IngestFile(context.Background(), "/no/such/file.txt")
	if result.Success {
		t.Fatal("missing file ingestion must fail")
	}
}

func TestIngestFileEmpty(t *testing.T) {
	svc := NewService(memory.New(), hashEncoder{}, 0, 0)
	path := writeDoc(t, t.TempDir(), "empty.md", "   \n\n ")

	result := svc.IngestFile(context.Background(), path)
	if result.Success {
		t.Fatal("whitespace-only document must fail")
	}
	if !strings.Contains(result.Error, "no indexable text") {
		t.Errorf("error = %q, want no-indexable-text message", result.Error)
	}
}
