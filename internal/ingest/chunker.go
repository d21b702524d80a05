package ingest

import "strings"

// Default chunking parameters for uploaded documents.
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 100
)

// ChunkText splits text into chunks of at most chunkSize characters.
// Each chunk boundary is pulled backward from start+chunkSize to the
// nearest sentence or paragraph delimiter ('.' or newline) inside the
// window; if none exists the boundary moves forward to the next
// whitespace instead. Consecutive chunks overlap by overlap
// characters. Empty and whitespace-only chunks are dropped.
func ChunkText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(text)
	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + chunkSize

		if end < len(runes) {
			for end > start && runes[end] != '.' && runes[end] != '\n' {
				end--
			}
			// No delimiter inside the window: cut forward at the
			// nearest whitespace, the one case a chunk may exceed
			// chunkSize.
			if end == start {
				end = start + chunkSize
				for end < len(runes) && runes[end] != ' ' && runes[end] != '\n' {
					end++
				}
			}
		}
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		// The delimiter pullback can shrink a chunk below the overlap;
		// always advance so the loop terminates.
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}
