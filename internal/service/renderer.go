package service

import (
	"context"
	"fmt"
	"strings"

	"fitcoach/assistant-app/internal/domain"
)

// PlanRenderer turns a structured plan into the human-readable text
// sent to the user. The production deployment can plug an LLM-backed
// renderer here; the core only supplies the PlanRecord and consumes
// back a string.
type PlanRenderer interface {
	Render(ctx context.Context, plan *domain.PlanRecord, warmup *domain.WarmupRecord, previous *domain.WorkoutSnapshot) (string, error)
}

// templateRenderer is the default deterministic renderer.
type templateRenderer struct{}

// NewTemplateRenderer creates the built-in plan renderer.
func NewTemplateRenderer() PlanRenderer {
	return templateRenderer{}
}

func (templateRenderer) Render(_ context.Context, plan *domain.PlanRecord, warmup *domain.WarmupRecord, previous *domain.WorkoutSnapshot) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Workout %d.%d: %s\n", plan.Week, plan.Day, plan.Name)
	if len(plan.TargetMuscles) > 0 {
		fmt.Fprintf(&b, "Target muscles: %s\n", strings.Join(plan.TargetMuscles, ", "))
	}
	if plan.IntensityLevel != "" {
		fmt.Fprintf(&b, "Intensity: %s\n", plan.IntensityLevel)
	}

	if warmup != nil {
		fmt.Fprintf(&b, "\nWarmup (%d min): %s\n", warmup.TotalDuration/60, warmup.Name)
		for _, ex := range warmup.Exercises {
			fmt.Fprintf(&b, "  - %s\n", ex.Name)
		}
	} else if len(plan.Warmup) > 0 {
		b.WriteString("\nWarmup:\n")
		for _, w := range plan.Warmup {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	if len(plan.Exercises) > 0 {
		b.WriteString("\nExercises:\n")
		for i, ex := range plan.Exercises {
			fmt.Fprintf(&b, "  %d. %s: %d x %s\n", i+1, ex.Name, ex.Sets, ex.Reps)
		}
	} else {
		b.WriteString("\nDetailed exercises are unavailable for this session; repeat the last full workout for these target muscles.\n")
	}

	if len(plan.Cooldown) > 0 {
		b.WriteString("\nCooldown:\n")
		for _, cd := range plan.Cooldown {
			fmt.Fprintf(&b, "  - %s\n", cd)
		}
	}

	if previous != nil && previous.Text != "" {
		fmt.Fprintf(&b, "\nLast session was workout %d.%d, aim to match or beat it.\n", previous.Week, previous.Day)
	}

	return b.String(), nil
}
