package domain

import (
	"fmt"
	"strings"
)

// Gender values accepted by the plan catalog.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Intensity of a workout plan.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// PlanCategory groups plans by gender and age bracket (e.g. "18-30").
type PlanCategory struct {
	Gender   Gender `json:"gender"`
	AgeGroup string `json:"age_group"`
}

// ExerciseRef is one prescribed exercise inside a plan.
type ExerciseRef struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps string `json:"reps"`
}

// PlanRecord is the full-fidelity workout plan for one (gender,
// age group, week, day) slot. Exactly one record exists per slot.
type PlanRecord struct {
	Key            string        `json:"key"`
	Name           string        `json:"name"`
	Category       PlanCategory  `json:"category"`
	Week           int           `json:"week"`
	Day            int           `json:"day"`
	TargetMuscles  []string      `json:"target_muscles"`
	IntensityLevel Intensity     `json:"intensity_level"`
	Exercises      []ExerciseRef `json:"exercises"`
	Warmup         []string      `json:"warmup,omitempty"`
	Cooldown       []string      `json:"cooldown,omitempty"`
}

// CondensedPlan is the lossy projection stored next to the plan's
// embedding. The exercise list is intentionally dropped; full detail
// is served from the plan cache.
type CondensedPlan struct {
	Key            string       `json:"key"`
	Name           string       `json:"name"`
	Category       PlanCategory `json:"category"`
	Week           int          `json:"week"`
	Day            int          `json:"day"`
	TargetMuscles  []string     `json:"target_muscles"`
	IntensityLevel Intensity    `json:"intensity_level"`
}

// PlanFidelity tags how faithful a plan lookup result is.
type PlanFidelity string

const (
	// PlanFull means the plan came from the cache with its complete
	// exercise list.
	PlanFull PlanFidelity = "full"
	// PlanDegraded means the plan was rebuilt from condensed store
	// metadata and carries no exercises.
	PlanDegraded PlanFidelity = "degraded"
	// PlanAbsent means no record exists for the requested slot.
	PlanAbsent PlanFidelity = "absent"
)

// PlanResult is the outcome of an exact plan lookup. Callers must
// check Fidelity before trusting the exercise list.
type PlanResult struct {
	Fidelity PlanFidelity
	Plan     *PlanRecord
}

// PlanKey derives the canonical catalog key for a plan slot, e.g.
// male + "18-30" + week 1 + day 2 → "male_18_30_week1_day2". The same
// derivation is used by the loader, the cache and the vector store.
func PlanKey(gender Gender, ageGroup string, week, day int) string {
	return fmt.Sprintf("%s_%s_week%d_day%d",
		gender, strings.ReplaceAll(ageGroup, "-", "_"), week, day)
}
