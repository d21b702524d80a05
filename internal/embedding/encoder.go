package embedding

import (
	"context"
	"errors"
)

// ErrEncode wraps embedding computation failures. Encoding is
// deterministic for a given model version, so callers do not retry.
var ErrEncode = errors.New("embedding failed")

// Encoder maps free text to a fixed-length dense vector. EncodeBatch
// exists purely for throughput and must produce the same vectors as
// calling Encode per item. The encoder itself never caches.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float64, error)
	EncodeBatch(ctx context.Context, texts []string) ([][]float64, error)
	// Dimension returns the vector length, 0 until the first encode.
	Dimension() int
}
