package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonalRecord is an append-only ledger entry. Entries are never updated or
// deleted; the current record for an (exercise, reps) bucket is always derived
// as the maximum weight among matching entries. The exercise name is a
// denormalized copy so the entry survives deletion of the session or exercise
// that produced it.
type PersonalRecord struct {
	ID           uuid.UUID `json:"id"`
	ExerciseName string    `json:"exercise_name"`
	WeightKg     float64   `json:"weight_kg"`
	Reps         int       `json:"reps"`
	AchievedAt   time.Time `json:"achieved_at"`
	Notes        *string   `json:"notes,omitempty"`
	// IsWarmup mirrors the flag of the set the entry was minted from. Warm-up
	// sets never mint entries, so it is false on every entry that exists.
	IsWarmup bool `json:"is_warmup"`
}
