package corpus

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"fitcoach/assistant-app/internal/cache"
	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/store"
	"fitcoach/assistant-app/internal/store/memory"
)

// hashEncoder is a deterministic stand-in for the embeddings API.
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

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func seedCorpus(t *testing.T, dir string) {
	t.Helper()
	writeJSON(t, filepath.Join(dir, WarmupFile), domain.WarmupRecord{
		Name:          "Standard Warmup",
		Description:   "Full-body preparation",
		TotalDuration: 300,
		Exercises: []domain.WarmupExercise{
			{Name: "Jumping Jacks", Duration: 60},
			{Name: "Arm Circles", Duration: 30},
		},
	})
	writeJSON(t, filepath.Join(dir, ExercisesFile), map[string]any{
		"exercises": []domain.ExerciseRecord{
			{ID: "ex_001", Name: "Squat", Description: "Basic squat", PrimaryMuscles: []string{"quads", "glutes"}, Equipment: []string{"none"}, Difficulty: 2},
			{ID: "ex_002", Name: "Push-up", Description: "Basic push-up", PrimaryMuscles: []string{"chest"}, Equipment: []string{"none"}, Difficulty: 2},
		},
	})
	writeJSON(t, filepath.Join(dir, PlansFile), map[string]any{
		"plans": map[string]*domain.PlanRecord{
			"male_18_30_week1_day1": {
				Name:           "Push Day",
				Category:       domain.PlanCategory{Gender: domain.GenderMale, AgeGroup: "18-30"},
				Week:           1,
				Day:            1,
				TargetMuscles:  []string{"chest", "triceps"},
				IntensityLevel: domain.IntensityMedium,
				Exercises:      []domain.ExerciseRef{{Name: "Push-up", Sets: 3, Reps: "12"}},
			},
			"female_30_45_week2_day8": {
				Name:           "Lower Body",
				Category:       domain.PlanCategory{Gender: domain.GenderFemale, AgeGroup: "30-45"},
				Week:           2,
				Day:            8,
				TargetMuscles:  []string{"quads"},
				IntensityLevel: domain.IntensityLow,
				Exercises:      []domain.ExerciseRef{{Name: "Squat", Sets: 4, Reps: "10"}},
			},
		},
	})
}

func TestLoadPopulatesStoreAndCache(t *testing.T) {
	dir := t.TempDir()
	seedCorpus(t, dir)

	docStore := memory.New()
	planCache := cache.New()
	loader := NewLoader(docStore, hashEncoder{}, planCache)

	summary, err := loader.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !summary.WarmupLoaded || summary.ExercisesLoaded != 2 || summary.PlansLoaded != 2 {
		t.Errorf("summary = %+v, want warmup + 2 exercises + 2 plans", summary)
	}

	ctx := context.Background()
	for _, tt := range []struct {
		coll string
		want int64
	}{
		{store.CollectionWarmup, 1},
		{store.CollectionExercises, 2},
		{store.CollectionPlans, 2},
	} {
		count, err := docStore.Count(ctx, tt.coll)
		if err != nil || count != tt.want {
			t.Errorf("count(%s) = %d/%v, want %d", tt.coll, count, err, tt.want)
		}
	}

	// Cache holds the full plan, exercise list included.
	plan, ok := planCache.Get("male_18_30_week1_day1")
	if !ok {
		t.Fatal("plan missing from cache")
	}
	if plan.Key != "male_18_30_week1_day1" {
		t.Errorf("plan key = %q, want the map key stamped on", plan.Key)
	}
	if len(plan.Exercises) != 1 || plan.Exercises[0].Name != "Push-up" {
		t.Errorf("cached plan exercises = %v, want full Push-up entry", plan.Exercises)
	}

	// The store record is the condensed projection: no exercise list in
	// its metadata, only category and intensity.
	recs, err := docStore.Get(ctx, store.CollectionPlans, []string{"male_18_30_week1_day1"})
	if err != nil || len(recs) != 1 {
		t.Fatalf("store get: %v (%d records)", err, len(recs))
	}
	meta := recs[0].Metadata
	if meta["gender"] != "male" || meta["age_group"] != "18-30" || meta["week"] != "1" {
		t.Errorf("condensed metadata = %v", meta)
	}
	if _, ok := meta["exercises"]; ok {
		t.Error("condensed record must not carry the exercise list")
	}
}

func TestLoadSkipsMissingSources(t *testing.T) {
	dir := t.TempDir()
	// Only the exercise library exists.
	writeJSON(t, filepath.Join(dir, ExercisesFile), map[string]any{
		"exercises": []domain.ExerciseRecord{{ID: "ex_001", Name: "Squat"}},
	})

	docStore := memory.New()
	loader := NewLoader(docStore, hashEncoder{}, cache.New())

	summary, err := loader.Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if summary.WarmupLoaded {
		t.Error("warmup reported loaded with no source file")
	}
	if summary.ExercisesLoaded != 1 {
		t.Errorf("exercises loaded = %d, want 1", summary.ExercisesLoaded)
	}
	if summary.PlansLoaded != 0 {
		t.Errorf("plans loaded = %d, want 0", summary.PlansLoaded)
	}
}

func TestLoadMissingDirectoryIsNoOp(t *testing.T) {
	docStore := memory.New()
	loader := NewLoader(docStore, hashEncoder{}, cache.New())

	summary, err := loader.Load(context.Background(), "/does/not/exist")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if summary.WarmupLoaded || summary.ExercisesLoaded != 0 || summary.PlansLoaded != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}
}

func TestReloadReplacesCacheWholesale(t *testing.T) {
	dir := t.TempDir()
	seedCorpus(t, dir)

	docStore := memory.New()
	planCache := cache.New()
	loader := NewLoader(docStore, hashEncoder{}, planCache)
	ctx := context.Background()

	if _, err := loader.Load(ctx, dir); err != nil {
		t.Fatalf("first load: %v", err)
	}

	// Second corpus version drops one plan.
	writeJSON(t, filepath.Join(dir, PlansFile), map[string]any{
		"plans": map[string]*domain.PlanRecord{
			"male_18_30_week1_day1": {
				Name:     "Push Day v2",
				Category: domain.PlanCategory{Gender: domain.GenderMale, AgeGroup: "18-30"},
				Week:     1,
				Day:      1,
			},
		},
	})
	if _, err := loader.Load(ctx, dir); err != nil {
		t.Fatalf("second load: %v", err)
	}

	if planCache.Len() != 1 {
		t.Errorf("cache len = %d, want 1 after reindex", planCache.Len())
	}
	plan, ok := planCache.Get("male_18_30_week1_day1")
	if !ok || plan.Name != "Push Day v2" {
		t.Errorf("plan = %v/%t, want Push Day v2", plan, ok)
	}

	// The store keeps the superseded record; overwritten ids update in
	// place and nothing is cleared.
	count, _ := docStore.Count(ctx, store.CollectionPlans)
	if count != 2 {
		t.Errorf("store count = %d, want 2 (no clearing on reindex)", count)
	}
}
