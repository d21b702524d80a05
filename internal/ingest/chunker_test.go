package ingest

import (
	"strings"
	"testing"
)

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("short text", 1000, 100)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("chunks = %v, want single chunk", chunks)
	}
}

func TestChunkTextEmptyInput(t *testing.T) {
	if chunks := ChunkText("", 100, 10); chunks != nil {
		t.Errorf("chunks = %v, want nil", chunks)
	}
	if chunks := ChunkText("   \n\n  ", 100, 10); chunks != nil {
		t.Errorf("whitespace-only chunks = %v, want nil", chunks)
	}
}

func TestChunkTextBreaksAtSentence(t *testing.T) {
	text := "First sentence here. Second sentence follows and keeps going past the window."
	chunks := ChunkText(text, 30, 0)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	// The boundary is pulled back to the period inside the window.
	if chunks[0] != "First sentence here" {
		t.Errorf("first chunk = %q, want %q", chunks[0], "First sentence here")
	}
}

func TestChunkTextNoDelimiterCutsForward(t *testing.T) {
	// One long unbroken token followed by more words. The window holds
	// no '.' or newline, so the cut moves forward to whitespace and the
	// chunk may exceed chunkSize.
	text := strings.Repeat("a", 50) + " tail words"
	chunks := ChunkText(text, 20, 0)
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	if chunks[0] != strings.Repeat("a", 50) {
		t.Errorf("first chunk = %q, want the full 50-rune token", chunks[0])
	}
}

func TestChunkTextOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("word ")
	}
	chunks := ChunkText(b.String(), 60, 20)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	// Consecutive chunks share text from the overlap window.
	tail := chunks[0][len(chunks[0])-10:]
	if !strings.Contains(chunks[1], strings.TrimSpace(tail)) {
		t.Errorf("chunk 2 %q does not overlap with end of chunk 1 %q", chunks[1], chunks[0])
	}
}

func TestChunkTextTerminates(t *testing.T) {
	// Overlap larger than the distance advanced used to be able to
	// stall the scan; the guard must always move start forward.
	text := strings.Repeat("x. ", 200)
	done := make(chan []string, 1)
	go func() { done <- ChunkText(text, 10, 9) }()
	chunks := <-done
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
}

func TestChunkTextCoversAllContent(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " +
		"Pack my box with five dozen liquor jugs. " +
		"How vexingly quick daft zebras jump."
	chunks := ChunkText(text, 50, 10)

	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		w := strings.Trim(word, ".")
		if !strings.Contains(joined, w) {
			t.Errorf("word %q missing from chunks %v", w, chunks)
		}
	}
}
