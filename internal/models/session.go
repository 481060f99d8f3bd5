package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a single workout occurrence. Plan name and label are snapshots
// taken at logging time, decoupled from the live plan so history survives
// plan edits.
type Session struct {
	ID          uuid.UUID         `json:"id"`
	Date        time.Time         `json:"date"`
	PlanName    *string           `json:"plan_name,omitempty"`
	Label       *string           `json:"label,omitempty"`
	DurationSec *int              `json:"duration_sec,omitempty"`
	Completed   bool              `json:"completed"`
	Notes       *string           `json:"notes,omitempty"`
	Exercises   []ExerciseSession `json:"exercises"`
}

// ExerciseSession groups the sets of one exercise within a session. The
// exercise name is a denormalized copy, not a live reference, so it survives
// exercise rename or deletion. Set order is significant: warm-up ramps are
// inserted at the head.
type ExerciseSession struct {
	ID           uuid.UUID `json:"id"`
	SessionID    uuid.UUID `json:"session_id"`
	ExerciseName string    `json:"exercise_name"`
	Position     int       `json:"position"`
	Sets         []SetLog  `json:"sets"`
}

// SetLog is one logged set. Weight is always kilograms regardless of the
// display unit.
type SetLog struct {
	ID        uuid.UUID `json:"id"`
	Reps      int       `json:"reps"`
	WeightKg  float64   `json:"weight_kg"`
	RPE       *float64  `json:"rpe,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
	RestSec   *int      `json:"rest_sec,omitempty"`
	IsWarmup  bool      `json:"is_warmup"`
	SetNumber int       `json:"set_number"`
}

// FindExercise returns the exercise session with the given name, or nil.
// A session holds at most one exercise session per distinct exercise name.
func (s *Session) FindExercise(name string) *ExerciseSession {
	for i := range s.Exercises {
		if s.Exercises[i].ExerciseName == name {
			return &s.Exercises[i]
		}
	}
	return nil
}
