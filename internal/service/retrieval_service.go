package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"fitcoach/assistant-app/internal/cache"
	"fitcoach/assistant-app/internal/domain"
	"fitcoach/assistant-app/internal/embedding"
	"fitcoach/assistant-app/internal/store"
)

// --- Error Definitions ---
var (
	ErrWarmupNotFound = errors.New("warmup routine not found")
)

// Default result counts for semantic search.
const (
	DefaultExerciseResults = 5
	DefaultPlanResults     = 3
)

// ExerciseMatch is one ranked hit of a semantic exercise search.
type ExerciseMatch struct {
	Exercise domain.ExerciseRecord `json:"exercise"`
	Score    float64               `json:"score"`
}

// PlanMatch is one ranked hit of a semantic plan search.
type PlanMatch struct {
	Plan  domain.CondensedPlan `json:"plan"`
	Score float64              `json:"score"`
}

// CollectionStatus reports one collection's health for the status
// endpoint.
type CollectionStatus struct {
	Count int64  `json:"count"`
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// RetrievalService is the query-facing API over the document store and
// the plan cache.
type RetrievalService interface {
	GetWarmup(ctx context.Context) (*domain.WarmupRecord, error)
	SearchExercises(ctx context.Context, query string, k int) ([]ExerciseMatch, error)
	SearchSimilarPlans(ctx context.Context, query string, k int) ([]PlanMatch, error)
	GetPlansByCategory(ctx context.Context, gender domain.Gender, ageGroup string) ([]domain.CondensedPlan, error)
	GetWorkoutPlan(ctx context.Context, gender domain.Gender, ageGroup string, week, day int) (domain.PlanResult, error)
	Status(ctx context.Context) map[string]CollectionStatus
	CacheSize() int
}

// retrievalService implements RetrievalService.
type retrievalService struct {
	store     store.DocumentStore
	encoder   embedding.Encoder
	planCache *cache.PlanCache
}

// NewRetrievalService creates a new instance of retrievalService.
func NewRetrievalService(docStore store.DocumentStore, encoder embedding.Encoder, planCache *cache.PlanCache) RetrievalService {
	return &retrievalService{store: docStore, encoder: encoder, planCache: planCache}
}

// GetWarmup returns the singleton warmup routine.
func (s *retrievalService) GetWarmup(ctx context.Context) (*domain.WarmupRecord, error) {
	records, err := s.store.Get(ctx, store.CollectionWarmup, []string{domain.WarmupID})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrWarmupNotFound
	}

	var warmup domain.WarmupRecord
	if raw, ok := records[0].Metadata["record"]; ok {
		if err := json.Unmarshal([]byte(raw), &warmup); err == nil {
			return &warmup, nil
		}
	}
	// Metadata without the full record still yields a usable routine.
	warmup.Name = "Warmup"
	warmup.Description = records[0].Text
	warmup.TotalDuration, _ = strconv.Atoi(records[0].Metadata["duration"])
	return &warmup, nil
}

// SearchExercises runs a semantic search over the exercise collection,
// which also holds user-ingested knowledge chunks.
func (s *retrievalService) SearchExercises(ctx context.Context, query string, k int) ([]ExerciseMatch, error) {
	if k <= 0 {
		k = DefaultExerciseResults
	}
	vector, err := s.encoder.Encode(ctx, query)
	if err != nil {
		return nil, err
	}
	hits, err := s.store.Query(ctx, store.CollectionExercises, vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]ExerciseMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, ExerciseMatch{
			Exercise: exerciseFromRecord(hit.Record),
			Score:    hit.Score,
		})
	}
	return matches, nil
}

// SearchSimilarPlans runs a semantic search over the condensed plan
// collection.
func (s *retrievalService) SearchSimilarPlans(ctx context.Context, query string, k int) ([]PlanMatch, error) {
	if k <= 0 {
		k = DefaultPlanResults
	}
	vector, err := s.encoder.Encode(ctx, query)
	if err != nil {
		return nil, err
	}
	hits, err := s.store.Query(ctx, store.CollectionPlans, vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]PlanMatch, 0, len(hits))
	for _, hit := range hits {
		matches = append(matches, PlanMatch{
			Plan:  condensedFromMetadata(hit.Record.ID, hit.Record.Metadata),
			Score: hit.Score,
		})
	}
	return matches, nil
}

// GetPlansByCategory filters the full plan dump client-side. The store
// has no native predicate filter, and the corpus is small enough that
// the O(total plans) cost does not matter.
func (s *retrievalService) GetPlansByCategory(ctx context.Context, gender domain.Gender, ageGroup string) ([]domain.CondensedPlan, error) {
	records, err := s.store.Dump(ctx, store.CollectionPlans)
	if err != nil {
		return nil, err
	}

	var plans []domain.CondensedPlan
	for _, rec := range records {
		if rec.Metadata["gender"] == string(gender) && rec.Metadata["age_group"] == ageGroup {
			plans = append(plans, condensedFromMetadata(rec.ID, rec.Metadata))
		}
	}
	return plans, nil
}

// GetWorkoutPlan resolves the exact plan for a slot. The cache is the
// only fully-faithful source; when it misses, the condensed store
// record is rebuilt into a degraded plan with no exercises, which
// keeps the system answering after a restart against a stale persisted
// store.
func (s *retrievalService) GetWorkoutPlan(ctx context.Context, gender domain.Gender, ageGroup string, week, day int) (domain.PlanResult, error) {
	key := domain.PlanKey(gender, ageGroup, week, day)

	if plan, ok := s.planCache.Get(key); ok {
		return domain.PlanResult{Fidelity: domain.PlanFull, Plan: plan}, nil
	}

	records, err := s.store.Get(ctx, store.CollectionPlans, []string{key})
	if err != nil {
		return domain.PlanResult{Fidelity: domain.PlanAbsent}, err
	}
	if len(records) == 0 {
		return domain.PlanResult{Fidelity: domain.PlanAbsent}, nil
	}

	meta := records[0].Metadata
	var muscles []string
	_ = json.Unmarshal([]byte(meta["muscles"]), &muscles)
	intensity := domain.Intensity(meta["intensity_level"])
	if intensity == "" {
		intensity = domain.IntensityMedium
	}

	degraded := &domain.PlanRecord{
		Key:            key,
		Name:           fmt.Sprintf("Workout %d.%d", week, day),
		Category:       domain.PlanCategory{Gender: gender, AgeGroup: ageGroup},
		Week:           week,
		Day:            day,
		TargetMuscles:  muscles,
		IntensityLevel: intensity,
		Exercises:      []domain.ExerciseRef{},
		Warmup:         []string{},
		Cooldown:       []string{},
	}
	return domain.PlanResult{Fidelity: domain.PlanDegraded, Plan: degraded}, nil
}

// Status reports per-collection counts for the status endpoint.
func (s *retrievalService) Status(ctx context.Context) map[string]CollectionStatus {
	status := make(map[string]CollectionStatus, len(store.Collections))
	for _, name := range store.Collections {
		count, err := s.store.Count(ctx, name)
		if err != nil {
			status[name] = CollectionStatus{Ready: false, Error: err.Error()}
			continue
		}
		status[name] = CollectionStatus{Count: count, Ready: true}
	}
	return status
}

// CacheSize returns the number of fully-cached plans.
func (s *retrievalService) CacheSize() int {
	return s.planCache.Len()
}

func exerciseFromRecord(rec store.Record) domain.ExerciseRecord {
	ex := domain.ExerciseRecord{
		ID:          rec.ID,
		Name:        rec.Metadata["name"],
		Description: rec.Text,
	}
	if ex.Name == "" {
		// Ingested knowledge chunks carry a filename instead of an
		// exercise name.
		ex.Name = rec.Metadata["filename"]
	}
	_ = json.Unmarshal([]byte(rec.Metadata["muscles"]), &ex.PrimaryMuscles)
	_ = json.Unmarshal([]byte(rec.Metadata["equipment"]), &ex.Equipment)
	_ = json.Unmarshal([]byte(rec.Metadata["ascii"]), &ex.ASCIISchematic)
	ex.Difficulty, _ = strconv.Atoi(rec.Metadata["difficulty"])
	return ex
}

func condensedFromMetadata(id string, meta map[string]string) domain.CondensedPlan {
	plan := domain.CondensedPlan{
		Key:  id,
		Name: meta["name"],
		Category: domain.PlanCategory{
			Gender:   domain.Gender(meta["gender"]),
			AgeGroup: meta["age_group"],
		},
		IntensityLevel: domain.Intensity(meta["intensity_level"]),
	}
	plan.Week, _ = strconv.Atoi(meta["week"])
	plan.Day, _ = strconv.Atoi(meta["day"])
	_ = json.Unmarshal([]byte(meta["muscles"]), &plan.TargetMuscles)
	return plan
}
