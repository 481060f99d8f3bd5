package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlanType determines which workout labels a plan can schedule.
type PlanType string

const (
	PlanFullBody PlanType = "full_body"
	PlanAB       PlanType = "ab"
	PlanABC      PlanType = "abc"
)

// Labels returns the set of workout labels valid for this plan type.
func (p PlanType) Labels() []string {
	switch p {
	case PlanFullBody:
		return []string{"Full"}
	case PlanAB:
		return []string{"A", "B"}
	case PlanABC:
		return []string{"A", "B", "C"}
	}
	return nil
}

// Valid reports whether p is a known plan type.
func (p PlanType) Valid() bool {
	switch p {
	case PlanFullBody, PlanAB, PlanABC:
		return true
	}
	return false
}

// HasLabel reports whether label belongs to this plan type's label set.
func (p PlanType) HasLabel(label string) bool {
	for _, l := range p.Labels() {
		if l == label {
			return true
		}
	}
	return false
}

// Plan is a training plan owning an ordered list of exercises and a weekly
// schedule. Exercises cascade on deletion.
type Plan struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Type      PlanType        `json:"type"`
	Exercises []Exercise      `json:"exercises"`
	Schedule  []ScheduleEntry `json:"schedule"`
	CreatedAt time.Time       `json:"created_at"`
}

// ScheduleEntry assigns a workout label to a weekday (1 = Monday .. 7 = Sunday).
type ScheduleEntry struct {
	Weekday int    `json:"weekday"`
	Label   string `json:"label"`
}

// Validate checks plan invariants: known type, schedule labels drawn from the
// type's label set, weekdays in 1..7, exercise names unique within the plan.
func (p *Plan) Validate() error {
	if !p.Type.Valid() {
		return fmt.Errorf("unknown plan type %q", p.Type)
	}
	for _, e := range p.Schedule {
		if e.Weekday < 1 || e.Weekday > 7 {
			return fmt.Errorf("schedule weekday %d out of range 1-7", e.Weekday)
		}
		if !p.Type.HasLabel(e.Label) {
			return fmt.Errorf("label %q not valid for plan type %q", e.Label, p.Type)
		}
	}
	seen := make(map[string]bool, len(p.Exercises))
	for _, ex := range p.Exercises {
		if seen[ex.Name] {
			return fmt.Errorf("duplicate exercise name %q", ex.Name)
		}
		seen[ex.Name] = true
	}
	return nil
}

// Exercise is a planned exercise within a plan. Identity is the name, unique
// within its plan.
type Exercise struct {
	ID           uuid.UUID `json:"id"`
	PlanID       uuid.UUID `json:"plan_id"`
	Name         string    `json:"name"`
	PlannedSets  int       `json:"planned_sets"`
	TargetReps   *int      `json:"target_reps,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	Label        *string   `json:"label,omitempty"`
	MuscleGroup  *string   `json:"muscle_group,omitempty"`
	Equipment    *string   `json:"equipment,omitempty"`
	IsBodyweight bool      `json:"is_bodyweight"`
	IsFavorite   bool      `json:"is_favorite"`
	Position     int       `json:"position"`
}
