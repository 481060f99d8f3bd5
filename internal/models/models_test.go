package models

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestPlanTypeLabels(t *testing.T) {
	tests := []struct {
		planType PlanType
		want     []string
	}{
		{PlanFullBody, []string{"Full"}},
		{PlanAB, []string{"A", "B"}},
		{PlanABC, []string{"A", "B", "C"}},
		{PlanType("bogus"), nil},
	}

	for _, tt := range tests {
		got := tt.planType.Labels()
		if len(got) != len(tt.want) {
			t.Errorf("%s.Labels() = %v, want %v", tt.planType, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s.Labels()[%d] = %q, want %q", tt.planType, i, got[i], tt.want[i])
			}
		}
	}
}

func TestPlanValidate(t *testing.T) {
	valid := Plan{
		Name: "PPL",
		Type: PlanABC,
		Schedule: []ScheduleEntry{
			{Weekday: 1, Label: "A"},
			{Weekday: 3, Label: "B"},
			{Weekday: 5, Label: "C"},
		},
		Exercises: []Exercise{
			{ID: uuid.New(), Name: "Squat"},
			{ID: uuid.New(), Name: "Bench Press"},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid plan rejected: %v", err)
	}

	badLabel := valid
	badLabel.Type = PlanAB
	if err := badLabel.Validate(); err == nil {
		t.Error("label C accepted for AB plan")
	}

	badDay := valid
	badDay.Schedule = []ScheduleEntry{{Weekday: 8, Label: "A"}}
	if err := badDay.Validate(); err == nil {
		t.Error("weekday 8 accepted")
	}

	dupe := valid
	dupe.Exercises = []Exercise{{Name: "Squat"}, {Name: "Squat"}}
	if err := dupe.Validate(); err == nil {
		t.Error("duplicate exercise name accepted")
	}
}

// TestWeightConversionRoundTrip verifies the kg↔lb conversion stays at the
// presentation boundary and round-trips cleanly.
func TestWeightConversionRoundTrip(t *testing.T) {
	if got := DisplayWeight(100, UnitKg); got != 100 {
		t.Errorf("DisplayWeight(100, kg) = %v, want 100", got)
	}
	lb := DisplayWeight(100, UnitLb)
	if math.Abs(lb-220.46226218) > 1e-9 {
		t.Errorf("DisplayWeight(100, lb) = %v, want 220.46226218", lb)
	}
	// One kilogram displays as LbPerKg pounds, never the inverse.
	if got := DisplayWeight(1, UnitLb); math.Abs(got-LbPerKg) > 1e-12 {
		t.Errorf("DisplayWeight(1, lb) = %v, want %v", got, LbPerKg)
	}
	back := StoreWeight(lb, UnitLb)
	if math.Abs(back-100) > 1e-9 {
		t.Errorf("round trip = %v, want 100", back)
	}
}

func TestFindExercise(t *testing.T) {
	s := Session{
		Exercises: []ExerciseSession{
			{ExerciseName: "Squat"},
			{ExerciseName: "Deadlift"},
		},
	}
	if es := s.FindExercise("Deadlift"); es == nil || es.ExerciseName != "Deadlift" {
		t.Errorf("FindExercise(Deadlift) = %v", es)
	}
	if es := s.FindExercise("Curl"); es != nil {
		t.Errorf("FindExercise(Curl) = %v, want nil", es)
	}
}
