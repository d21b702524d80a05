package domain

// WarmupID is the fixed store ID of the singleton warmup routine.
const WarmupID = "warmup_001"

// WarmupExercise is one movement of the warmup routine.
type WarmupExercise struct {
	Name     string `json:"name"`
	Duration int    `json:"duration,omitempty"` // seconds
}

// WarmupRecord is the single warmup routine shipped with the corpus.
// Exactly one instance exists per load, stored under WarmupID.
type WarmupRecord struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	TotalDuration int              `json:"total_duration"` // seconds
	Exercises     []WarmupExercise `json:"exercises"`
}
