package service

import (
	"context"
	"strings"
	"testing"

	"fitcoach/assistant-app/internal/domain"
)

func TestRenderFullPlan(t *testing.T) {
	r := NewTemplateRenderer()
	plan := &domain.PlanRecord{
		Name:           "Push Day",
		Week:           1,
		Day:            2,
		TargetMuscles:  []string{"chest", "triceps"},
		IntensityLevel: domain.IntensityMedium,
		Exercises: []domain.ExerciseRef{
			{Name: "Push-up", Sets: 3, Reps: "12"},
			{Name: "Dips", Sets: 3, Reps: "8-10"},
		},
		Cooldown: []string{"Chest stretch"},
	}
	warmup := &domain.WarmupRecord{
		Name:          "Standard Warmup",
		TotalDuration: 300,
		Exercises:     []domain.WarmupExercise{{Name: "Jumping Jacks"}},
	}

	text, err := r.Render(context.Background(), plan, warmup, &domain.WorkoutSnapshot{Week: 1, Day: 1, Text: "prev"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Workout 1.2: Push Day",
		"chest, triceps",
		"Warmup (5 min): Standard Warmup",
		"1. Push-up: 3 x 12",
		"2. Dips: 3 x 8-10",
		"Chest stretch",
		"workout 1.1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered text missing %q:\n%s", want, text)
		}
	}
}

func TestRenderDegradedPlanExplainsMissingExercises(t *testing.T) {
	r := NewTemplateRenderer()
	plan := &domain.PlanRecord{Name: "Workout 2.8", Week: 2, Day: 8}

	text, err := r.Render(context.Background(), plan, nil, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "Detailed exercises are unavailable") {
		t.Errorf("degraded render lacks the fallback note:\n%s", text)
	}
}
