package domain

import "testing"

func TestPlanKey(t *testing.T) {
	tests := []struct {
		gender   Gender
		ageGroup string
		week     int
		day      int
		want     string
	}{
		{GenderMale, "18-30", 1, 1, "male_18_30_week1_day1"},
		{GenderFemale, "30-45", 2, 9, "female_30_45_week2_day9"},
		{GenderMale, "60+", 4, 28, "male_60+_week4_day28"},
		{GenderFemale, "under_18", 1, 3, "female_under_18_week1_day3"},
	}
	for _, tt := range tests {
		got := PlanKey(tt.gender, tt.ageGroup, tt.week, tt.day)
		if got != tt.want {
			t.Errorf("PlanKey(%s, %s, %d, %d) = %q, want %q",
				tt.gender, tt.ageGroup, tt.week, tt.day, got, tt.want)
		}
	}
}

func TestPlanKeyMatchesLoaderDerivation(t *testing.T) {
	// The same key must resolve cache entries, store ids and lookups.
	key := PlanKey(GenderMale, AgeGroupForAge(25), WeekForDay(8), 8)
	if key != "male_18_30_week2_day8" {
		t.Errorf("derived key = %q, want male_18_30_week2_day8", key)
	}
}
