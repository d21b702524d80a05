package domain

import "time"

// The curriculum is fixed: 4 weeks of 7 daily workouts.
const (
	ProgramDays  = 28
	ProgramWeeks = 4
)

// ProgramState is the lifecycle phase of a user's training program.
type ProgramState string

const (
	StateNoProfile         ProgramState = "no_profile"
	StateCollectingProfile ProgramState = "collecting_profile"
	StateActive            ProgramState = "active"
	StateComplete          ProgramState = "complete"
)

// Goal values accepted from the profile parser.
type Goal string

const (
	GoalGainMass Goal = "gain_mass"
	GoalLoseFat  Goal = "lose_fat"
	GoalMaintain Goal = "maintain"
)

// Profile holds the user attributes collected before the program
// starts. Parsing free text into these fields happens upstream; the
// core only checks completeness.
type Profile struct {
	Age           int    `bson:"age,omitempty" json:"age,omitempty"`
	Gender        Gender `bson:"gender,omitempty" json:"gender,omitempty"`
	Height        int    `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight        int    `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	ActivityLevel int    `bson:"activityLevel,omitempty" json:"activity_level,omitempty"` // 1..4
	Limitations   string `bson:"limitations,omitempty" json:"limitations,omitempty"`
	Goal          Goal   `bson:"goal,omitempty" json:"goal,omitempty"`
}

// Merge copies the non-zero fields of other into p.
func (p *Profile) Merge(other Profile) {
	if other.Age != 0 {
		p.Age = other.Age
	}
	if other.Gender != "" {
		p.Gender = other.Gender
	}
	if other.Height != 0 {
		p.Height = other.Height
	}
	if other.Weight != 0 {
		p.Weight = other.Weight
	}
	if other.ActivityLevel != 0 {
		p.ActivityLevel = other.ActivityLevel
	}
	if other.Limitations != "" {
		p.Limitations = other.Limitations
	}
	if other.Goal != "" {
		p.Goal = other.Goal
	}
}

// MissingFields lists the required profile fields that are still
// empty. Limitations is optional and defaults to "none".
func (p *Profile) MissingFields() []string {
	var missing []string
	if p.Age == 0 {
		missing = append(missing, "age")
	}
	if p.Gender == "" {
		missing = append(missing, "gender")
	}
	if p.Height == 0 {
		missing = append(missing, "height")
	}
	if p.Weight == 0 {
		missing = append(missing, "weight")
	}
	if p.ActivityLevel == 0 {
		missing = append(missing, "activity_level")
	}
	if p.Goal == "" {
		missing = append(missing, "goal")
	}
	return missing
}

// Complete reports whether every required field is present.
func (p *Profile) Complete() bool {
	return len(p.MissingFields()) == 0
}

// AgeGroupForAge maps an age to the catalog's bracket labels.
func AgeGroupForAge(age int) string {
	switch {
	case age < 18:
		return "under_18"
	case age < 30:
		return "18-30"
	case age < 45:
		return "30-45"
	case age < 60:
		return "45-60"
	default:
		return "60+"
	}
}

// WeekForDay derives the program week from a workout day, clamped to
// the 4-week curriculum.
func WeekForDay(day int) int {
	week := ((day - 1) / 7) + 1
	if week < 1 {
		week = 1
	}
	if week > ProgramWeeks {
		week = ProgramWeeks
	}
	return week
}

// CompletedWorkout is one entry of the append-only completion history.
type CompletedWorkout struct {
	Week        int       `bson:"week" json:"week"`
	Day         int       `bson:"day" json:"day"`
	CompletedAt time.Time `bson:"completedAt" json:"completed_at"`
}

// WorkoutSnapshot remembers the most recently issued workout so the
// next one can build on it.
type WorkoutSnapshot struct {
	Week int    `bson:"week" json:"week"`
	Day  int    `bson:"day" json:"day"`
	Text string `bson:"text" json:"text"`
}

// UserProgram is the per-user progression through the 28-day
// curriculum. It is persisted as one document per user and mutated
// only by profile, advance and completion events.
type UserProgram struct {
	UserID            string             `bson:"_id" json:"user_id"`
	State             ProgramState       `bson:"state" json:"state"`
	Profile           Profile            `bson:"profile" json:"profile"`
	AgeGroup          string             `bson:"ageGroup,omitempty" json:"age_group,omitempty"`
	WorkoutDay        int                `bson:"workoutDay" json:"workout_day"` // 1..28; >28 means finished
	CurrentWeek       int                `bson:"currentWeek" json:"current_week"`
	InWorkout         bool               `bson:"inWorkout" json:"in_workout"`
	WorkoutsCompleted []CompletedWorkout `bson:"workoutsCompleted" json:"workouts_completed"`
	LastWorkout       *WorkoutSnapshot   `bson:"lastWorkout,omitempty" json:"last_workout,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Finished reports whether the user has worked through all 28 days.
func (u *UserProgram) Finished() bool {
	return u.WorkoutDay > ProgramDays
}

// Normalize repairs state loaded from external storage. Persisted
// documents can be edited or corrupted between runs, so day and week
// are clamped instead of trusted.
func (u *UserProgram) Normalize() {
	if u.WorkoutDay < 1 {
		u.WorkoutDay = 1
	}
	if u.WorkoutDay > ProgramDays+1 {
		u.WorkoutDay = ProgramDays + 1
	}
	u.CurrentWeek = WeekForDay(u.WorkoutDay)
	if u.State == "" {
		u.State = StateNoProfile
	}
}
