// Package corpus reads the curated source data (warmup routine,
// exercise library, workout plan library), derives per-record search
// text and metadata, and populates the document store and plan cache.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fitcoach/assistant-app/internal/cache"
	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/embedding"
	"fitcoach/assistant-app/internal/store"
)

// Source file names expected under the data directory.
const (
	WarmupFile    = "warmup_routine.json"
	ExercisesFile = "exercises_library.json"
	PlansFile     = "workout_plans_full.json"
)

// Summary reports what a load pass actually brought in. Counts only;
// full records live in the store metadata and the plan cache.
type Summary struct {
	WarmupLoaded    bool `json:"warmup_loaded"`
	ExercisesLoaded int  `json:"exercises_loaded"`
	PlansLoaded     int  `json:"plans_loaded"`
}

// Loader populates the document store and the plan cache from the
// corpus source files. Re-running a load overwrites prior records
// under identical ids, so a reindex never empties the store.
type Loader struct {
	store   store.DocumentStore
	encoder embedding.Encoder
	cache   *cache.PlanCache
}

func NewLoader(docStore store.DocumentStore, encoder embedding.Encoder, planCache *cache.PlanCache) *Loader {
	return &Loader{store: docStore, encoder: encoder, cache: planCache}
}

// Load reads every source file under dataDir. Each source is
// independently optional: a missing or malformed file is logged and
// skipped, and the remaining sources still load.
func (l *Loader) Load(ctx context.Context, dataDir string) (Summary, error) {
	var summary Summary

	if _, err := os.Stat(dataDir); err != nil {
		log.Printf("WARN: corpus directory %s not found, skipping load", dataDir)
		return summary, nil
	}

	if err := l.loadWarmup(ctx, filepath.Join(dataDir, WarmupFile)); err != nil {
		log.Printf("WARN: warmup source skipped: %v", err)
	} else {
		summary.WarmupLoaded = true
	}

	n, err := l.loadExercises(ctx, filepath.Join(dataDir, ExercisesFile))
	if err != nil {
		log.Printf("WARN: exercise library skipped: %v", err)
	}
	summary.ExercisesLoaded = n

	n, err = l.loadPlans(ctx, filepath.Join(dataDir, PlansFile))
	if err != nil {
		log.Printf("WARN: workout plan library skipped: %v", err)
	}
	summary.PlansLoaded = n

	return summary, nil
}

func (l *Loader) loadWarmup(ctx context.Context, path string) error {
	var warmup domain.WarmupRecord
	if err := readJSON(path, &warmup); err != nil {
		return err
	}

	names := make([]string, 0, len(warmup.Exercises))
	for _, ex := range warmup.Exercises {
		names = append(names, ex.Name)
	}
	text := fmt.Sprintf("Warmup: %s\nDescription: %s\nDuration: %d seconds\nExercises: %s",
		warmup.Name, warmup.Description, warmup.TotalDuration, strings.Join(names, ", "))

	vector, err := l.encoder.Encode(ctx, text)
	if err != nil {
		return err
	}

	full, _ := json.Marshal(warmup)
	err = l.store.Upsert(ctx, store.CollectionWarmup, store.Record{
		ID:     domain.WarmupID,
		Vector: vector,
		Text:   text,
		Metadata: map[string]string{
			"type":     "warmup",
			"duration": strconv.Itoa(warmup.TotalDuration),
			"record":   string(full),
		},
	})
	if err != nil {
		return err
	}
	log.Printf("Corpus: warmup routine %q loaded", warmup.Name)
	return nil
}

func (l *Loader) loadExercises(ctx context.Context, path string) (int, error) {
	var library struct {
		Exercises []domain.ExerciseRecord `json:"exercises"`
	}
	if err := readJSON(path, &library); err != nil {
		return 0, err
	}
	if len(library.Exercises) == 0 {
		return 0, nil
	}

	texts := make([]string, 0, len(library.Exercises))
	records := make([]store.Record, 0, len(library.Exercises))
	for _, ex := range library.Exercises {
		text := fmt.Sprintf("Exercise: %s\nDescription: %s\nPrimary muscles: %s\nEquipment: %s\nDifficulty: %d/5",
			ex.Name, ex.Description,
			strings.Join(ex.PrimaryMuscles, ", "),
			strings.Join(ex.Equipment, ", "),
			ex.Difficulty)
		texts = append(texts, text)

		muscles, _ := json.Marshal(ex.PrimaryMuscles)
		equipment, _ := json.Marshal(ex.Equipment)
		schematic, _ := json.Marshal(ex.ASCIISchematic)
		records = append(records, store.Record{
			ID:   ex.ID,
			Text: text,
			Metadata: map[string]string{
				"id":         ex.ID,
				"name":       ex.Name,
				"muscles":    string(muscles),
				"equipment":  string(equipment),
				"difficulty": strconv.Itoa(ex.Difficulty),
				"ascii":      string(schematic),
			},
		})
	}

	vectors, err := l.encoder.EncodeBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	for i := range records {
		records[i].Vector = vectors[i]
	}
	if err := l.store.UpsertBatch(ctx, store.CollectionExercises, records); err != nil {
		return 0, err
	}
	log.Printf("Corpus: %d exercises loaded", len(records))
	return len(records), nil
}

func (l *Loader) loadPlans(ctx context.Context, path string) (int, error) {
	var library struct {
		Plans map[string]*domain.PlanRecord `json:"plans"`
	}
	if err := readJSON(path, &library); err != nil {
		return 0, err
	}
	if len(library.Plans) == 0 {
		return 0, nil
	}

	// The cache is rebuilt into a fresh map and swapped in wholesale
	// once the store writes succeed, so concurrent readers never see a
	// partially repopulated cache.
	fresh := make(map[string]*domain.PlanRecord, len(library.Plans))
	texts := make([]string, 0, len(library.Plans))
	records := make([]store.Record, 0, len(library.Plans))

	for key, plan := range library.Plans {
		plan.Key = key
		fresh[key] = plan

		names := make([]string, 0, len(plan.Exercises))
		for _, ex := range plan.Exercises {
			names = append(names, ex.Name)
		}
		text := fmt.Sprintf("Plan: %s\nFor: %s, age %s\nWeek: %d, Day: %d\nMuscles: %s\nIntensity: %s\nExercises: %s",
			plan.Name, plan.Category.Gender, plan.Category.AgeGroup,
			plan.Week, plan.Day,
			strings.Join(plan.TargetMuscles, ", "),
			plan.IntensityLevel, strings.Join(names, ", "))
		texts = append(texts, text)

		// Condensed projection: the exercise list is dropped on
		// purpose, full detail is served from the cache.
		muscles, _ := json.Marshal(plan.TargetMuscles)
		records = append(records, store.Record{
			ID:   key,
			Text: text,
			Metadata: map[string]string{
				"key":             key,
				"name":            plan.Name,
				"gender":          string(plan.Category.Gender),
				"age_group":       plan.Category.AgeGroup,
				"week":            strconv.Itoa(plan.Week),
				"day":             strconv.Itoa(plan.Day),
				"muscles":         string(muscles),
				"intensity_level": string(plan.IntensityLevel),
			},
		})
	}

	vectors, err := l.encoder.EncodeBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	for i := range records {
		records[i].Vector = vectors[i]
	}
	if err := l.store.UpsertBatch(ctx, store.CollectionPlans, records); err != nil {
		return 0, err
	}
	l.cache.Replace(fresh)
	log.Printf("Corpus: %d workout plans loaded", len(records))
	return len(records), nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
