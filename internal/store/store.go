package store

import (
	"context"
	"math"
)

// Collection names of the curated corpus. The set is fixed; upserts
// into anything else fail with ErrUnknownCollection.
const (
	CollectionWarmup    = "warmup"
	CollectionExercises = "exercises"
	CollectionPlans     = "workout_plans"
)

// Collections lists every known collection name.
var Collections = []string{CollectionWarmup, CollectionExercises, CollectionPlans}

// StoreError helps distinguish storage-layer failures.
type StoreError string

func (e StoreError) Error() string {
	return string(e)
}

var ErrUnknownCollection = StoreError("unknown collection")

// Record is one (id, vector, text, metadata) tuple of a collection.
// Metadata values are flat strings; list-valued fields are stored as
// JSON-encoded strings the same way the loader writes them.
type Record struct {
	ID       string
	Vector   []float64
	Text     string
	Metadata map[string]string
}

// ScoredRecord is a query hit with its similarity score, higher is
// closer.
type ScoredRecord struct {
	Record
	Score float64
}

// DocumentStore is collection-oriented storage with nearest-neighbor
// lookup. Writes are overwriting upserts keyed by record ID, so a
// reindex never exposes a window of missing data.
type DocumentStore interface {
	// Upsert inserts or overwrites a single record.
	Upsert(ctx context.Context, collection string, rec Record) error
	// UpsertBatch inserts or overwrites many records at once.
	UpsertBatch(ctx context.Context, collection string, recs []Record) error
	// Get returns the records for the given ids. Absent ids are
	// silently skipped; callers treat a missing record as "no data".
	Get(ctx context.Context, collection string, ids []string) ([]Record, error)
	// Query returns the k records nearest to the vector, best first.
	// Ties are broken by insertion order.
	Query(ctx context.Context, collection string, vector []float64, k int) ([]ScoredRecord, error)
	// Dump returns every record of the collection in insertion order.
	Dump(ctx context.Context, collection string) ([]Record, error)
	// Count returns the number of records in the collection.
	Count(ctx context.Context, collection string) (int64, error)
}

// KnownCollection reports whether name is one of the corpus
// collections.
func KnownCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// CosineSimilarity computes the cosine of the angle between a and b.
// A zero vector yields a score of 0.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
