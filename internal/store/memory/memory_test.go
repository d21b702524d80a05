package memory

import (
	"context"
	"errors"
	"testing"

	"fitcoach/assistant-app/internal/store"
)

func TestUpsertAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec := store.Record{ID: "ex1", Vector: []float64{1, 0}, Text: "squat", Metadata: map[string]string{"name": "Squat"}}
	if err := s.Upsert(ctx, store.CollectionExercises, rec); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.Get(ctx, store.CollectionExercises, []string{"ex1", "missing"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 || got[0].Text != "squat" {
		t.Errorf("got %v, want single squat record", got)
	}
}

func TestUnknownCollection(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Upsert(ctx, "nope", store.Record{ID: "x"}); !errors.Is(err, store.ErrUnknownCollection) {
		t.Errorf("upsert err = %v, want ErrUnknownCollection", err)
	}
	if _, err := s.Query(ctx, "nope", []float64{1}, 3); !errors.Is(err, store.ErrUnknownCollection) {
		t.Errorf("query err = %v, want ErrUnknownCollection", err)
	}
	if _, err := s.Count(ctx, "nope"); !errors.Is(err, store.ErrUnknownCollection) {
		t.Errorf("count err = %v, want ErrUnknownCollection", err)
	}
}

func TestQueryRanksBySimilarity(t *testing.T) {
	s := New()
	ctx := context.Background()

	recs := []store.Record{
		{ID: "a", Vector: []float64{1, 0}},
		{ID: "b", Vector: []float64{0, 1}},
		{ID: "c", Vector: []float64{0.9, 0.1}},
	}
	if err := s.UpsertBatch(ctx, store.CollectionExercises, recs); err != nil {
		t.Fatalf("upsert batch: %v", err)
	}

	hits, err := s.Query(ctx, store.CollectionExercises, []float64{1, 0}, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Record.ID != "a" {
		t.Errorf("top hit = %s, want a (exact match)", hits[0].Record.ID)
	}
	if hits[1].Record.ID != "c" {
		t.Errorf("second hit = %s, want c", hits[1].Record.ID)
	}
}

func TestQueryTieBreakIsInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Identical vectors, so every score ties; insertion order decides.
	for _, id := range []string{"first", "second", "third"} {
		if err := s.Upsert(ctx, store.CollectionPlans, store.Record{ID: id, Vector: []float64{1, 1}}); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}

	hits, err := s.Query(ctx, store.CollectionPlans, []float64{1, 1}, 3)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if hits[i].Record.ID != want {
			t.Errorf("hit %d = %s, want %s", i, hits[i].Record.ID, want)
		}
	}
}

func TestOverwriteKeepsInsertionPosition(t *testing.T) {
	s := New()
	ctx := context.Background()

	_ = s.Upsert(ctx, store.CollectionPlans, store.Record{ID: "a", Vector: []float64{1, 1}, Text: "old"})
	_ = s.Upsert(ctx, store.CollectionPlans, store.Record{ID: "b", Vector: []float64{1, 1}})
	// Overwriting "a" must not move it behind "b".
	_ = s.Upsert(ctx, store.CollectionPlans, store.Record{ID: "a", Vector: []float64{1, 1}, Text: "new"})

	hits, err := s.Query(ctx, store.CollectionPlans, []float64{1, 1}, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if hits[0].Record.ID != "a" || hits[0].Record.Text != "new" {
		t.Errorf("top hit = %s/%q, want a/new", hits[0].Record.ID, hits[0].Record.Text)
	}

	count, _ := s.Count(ctx, store.CollectionPlans)
	if count != 2 {
		t.Errorf("count = %d, want 2 (overwrite must not duplicate)", count)
	}
}

func TestQueryDefaultK(t *testing.T) {
	s := New()
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		_ = s.Upsert(ctx, store.CollectionExercises, store.Record{ID: string(rune('a' + i)), Vector: []float64{1}})
	}
	hits, err := s.Query(ctx, store.CollectionExercises, []float64{1}, 0)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(hits) != 5 {
		t.Errorf("got %d hits, want default 5", len(hits))
	}
}

func TestDumpPreservesOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	ids := []string{"w1", "w2", "w3"}
	for _, id := range ids {
		_ = s.Upsert(ctx, store.CollectionWarmup, store.Record{ID: id, Vector: []float64{1}})
	}
	recs, err := s.Dump(ctx, store.CollectionWarmup)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	for i, id := range ids {
		if recs[i].ID != id {
			t.Errorf("dump[%d] = %s, want %s", i, recs[i].ID, id)
		}
	}
}
