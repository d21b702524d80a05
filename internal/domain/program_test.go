package domain

import (
	"reflect"
	"testing"
)

func TestAgeGroupForAge(t *testing.T) {
	tests := []struct {
		age  int
		want string
	}{
		{12, "under_18"},
		{17, "under_18"},
		{18, "18-30"},
		{29, "18-30"},
		{30, "30-45"},
		{44, "30-45"},
		{45, "45-60"},
		{59, "45-60"},
		{60, "60+"},
		{85, "60+"},
	}
	for _, tt := range tests {
		if got := AgeGroupForAge(tt.age); got != tt.want {
			t.Errorf("AgeGroupForAge(%d) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestWeekForDay(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1},
		{7, 1},
		{8, 2},
		{14, 2},
		{15, 3},
		{21, 3},
		{22, 4},
		{28, 4},
		{29, 4}, // past the curriculum clamps to the last week
		{0, 1},
		{-3, 1},
	}
	for _, tt := range tests {
		if got := WeekForDay(tt.day); got != tt.want {
			t.Errorf("WeekForDay(%d) = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestProfileMergeKeepsExistingFields(t *testing.T) {
	p := Profile{Age: 25, Gender: GenderMale, Height: 180}
	p.Merge(Profile{Weight: 80, Goal: GoalGainMass})

	want := Profile{Age: 25, Gender: GenderMale, Height: 180, Weight: 80, Goal: GoalGainMass}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("merged profile = %+v, want %+v", p, want)
	}
}

func TestProfileMergeOverwritesWithNonZero(t *testing.T) {
	p := Profile{Age: 25, Weight: 80}
	p.Merge(Profile{Weight: 82})
	if p.Weight != 82 {
		t.Errorf("weight = %d, want 82", p.Weight)
	}
	if p.Age != 25 {
		t.Errorf("age = %d, want 25", p.Age)
	}
}

func TestProfileMissingFields(t *testing.T) {
	var p Profile
	missing := p.MissingFields()
	want := []string{"age", "gender", "height", "weight", "activity_level", "goal"}
	if !reflect.DeepEqual(missing, want) {
		t.Errorf("missing = %v, want %v", missing, want)
	}

	// Limitations is optional.
	p = Profile{Age: 30, Gender: GenderFemale, Height: 165, Weight: 60, ActivityLevel: 2, Goal: GoalLoseFat}
	if !p.Complete() {
		t.Errorf("profile without limitations should be complete, missing %v", p.MissingFields())
	}
}

func TestUserProgramFinished(t *testing.T) {
	p := UserProgram{WorkoutDay: 28}
	if p.Finished() {
		t.Error("day 28 is still in the program")
	}
	p.WorkoutDay = 29
	if !p.Finished() {
		t.Error("day 29 means all 28 workouts are done")
	}
}

func TestUserProgramNormalize(t *testing.T) {
	p := UserProgram{WorkoutDay: 99, CurrentWeek: 12}
	p.Normalize()
	if p.WorkoutDay != ProgramDays+1 {
		t.Errorf("day = %d, want %d", p.WorkoutDay, ProgramDays+1)
	}
	if p.CurrentWeek != ProgramWeeks {
		t.Errorf("week = %d, want %d", p.CurrentWeek, ProgramWeeks)
	}
	if p.State != StateNoProfile {
		t.Errorf("state = %q, want %q", p.State, StateNoProfile)
	}

	p = UserProgram{WorkoutDay: -5, State: StateActive}
	p.Normalize()
	if p.WorkoutDay != 1 || p.CurrentWeek != 1 {
		t.Errorf("day/week = %d/%d, want 1/1", p.WorkoutDay, p.CurrentWeek)
	}
}
