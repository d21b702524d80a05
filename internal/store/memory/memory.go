// Package memory provides an in-memory DocumentStore used by tests
// and by standalone runs that have no MongoDB at hand. It mirrors the
// semantics of the mongo backend: overwriting upserts, cosine ranking,
// insertion-order tie-break.
package memory

import (
	"context"
	"sort"
	"sync"

	"fitcoach/assistant-app/internal/store"
)

type collection struct {
	records map[string]*entry
	order   []string // ids in first-insertion order
}

type entry struct {
	rec store.Record
	seq int64
}

// Store is a brute-force in-memory vector store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
	nextSeq     int64
}

// New creates a Store with the fixed corpus collections.
func New() *Store {
	s := &Store{collections: make(map[string]*collection)}
	for _, name := range store.Collections {
		s.collections[name] = &collection{records: make(map[string]*entry)}
	}
	return s
}

func (s *Store) coll(name string) (*collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, store.ErrUnknownCollection
	}
	return c, nil
}

func (s *Store) Upsert(ctx context.Context, name string, rec store.Record) error {
	return s.UpsertBatch(ctx, name, []store.Record{rec})
}

func (s *Store) UpsertBatch(_ context.Context, name string, recs []store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.coll(name)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if existing, ok := c.records[rec.ID]; ok {
			// Overwrite keeps the original insertion position.
			existing.rec = rec
			continue
		}
		s.nextSeq++
		c.records[rec.ID] = &entry{rec: rec, seq: s.nextSeq}
		c.order = append(c.order, rec.ID)
	}
	return nil
}

func (s *Store) Get(_ context.Context, name string, ids []string) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.coll(name)
	if err != nil {
		return nil, err
	}
	var out []store.Record
	for _, id := range ids {
		if e, ok := c.records[id]; ok {
			out = append(out, e.rec)
		}
	}
	return out, nil
}

func (s *Store) Query(_ context.Context, name string, vector []float64, k int) ([]store.ScoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.coll(name)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = 5
	}
	scored := make([]store.ScoredRecord, 0, len(c.order))
	for _, id := range c.order {
		e := c.records[id]
		scored = append(scored, store.ScoredRecord{
			Record: e.rec,
			Score:  store.CosineSimilarity(e.rec.Vector, vector),
		})
	}
	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func (s *Store) Dump(_ context.Context, name string) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.coll(name)
	if err != nil {
		return nil, err
	}
	out := make([]store.Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id].rec)
	}
	return out, nil
}

func (s *Store) Count(_ context.Context, name string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.coll(name)
	if err != nil {
		return 0, err
	}
	return int64(len(c.records)), nil
}
