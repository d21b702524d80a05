package domain

// ExerciseRecord is a single entry of the curated exercise library.
// Records are immutable once the corpus is loaded; identity is the
// source-assigned ID.
type ExerciseRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	PrimaryMuscles []string `json:"primary_muscles"`
	Equipment      []string `json:"equipment"`
	Difficulty     int      `json:"difficulty"` // 1..5
	ASCIISchematic []string `json:"ascii_schematic,omitempty"`
}
