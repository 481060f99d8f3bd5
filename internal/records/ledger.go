// Package records implements the personal-record ledger: detection of new
// per-(exercise, rep-count) maximum-weight records and read queries over the
// append-only record history.
package records

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/google/uuid"
)

// Store is the slice of the data layer the ledger needs. *storage.DB
// satisfies it; tests use an in-memory fake.
type Store interface {
	InsertRecord(ctx context.Context, rec models.PersonalRecord, userID int) error
	BucketMax(ctx context.Context, exerciseName string, reps int, userID int) (float64, bool, error)
	CurrentRecord(ctx context.Context, exerciseName string, reps int, userID int) (*models.PersonalRecord, error)
	RecordsByExercise(ctx context.Context, exerciseName string, userID int) ([]models.PersonalRecord, error)
	AllRecords(ctx context.Context, limit int, userID int) ([]models.PersonalRecord, error)
}

// Ledger evaluates logged sets against the record history and answers record
// queries. It holds no state of its own beyond its dependencies.
type Ledger struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Ledger backed by the given store.
func New(store Store, log *slog.Logger) *Ledger {
	return &Ledger{store: store, log: log, now: time.Now}
}

// Evaluate checks a logged set against the (exerciseName, reps) bucket and
// appends a new ledger entry when the set strictly beats the bucket's current
// maximum (or the bucket is empty). Warm-up sets never produce records. Equal
// weight is not a new record.
//
// Persistence is best-effort: when the insert fails the detected record is
// still returned so the caller can show it, and the write error is returned
// alongside for visibility. Durability of the detection is not guaranteed.
func (l *Ledger) Evaluate(ctx context.Context, set models.SetLog, exerciseName string, userID int) (*models.PersonalRecord, error) {
	if set.IsWarmup {
		return nil, nil
	}

	max, exists, err := l.store.BucketMax(ctx, exerciseName, set.Reps, userID)
	if err != nil {
		// Fetch failure degrades to "no record detected".
		l.log.Warn("record lookup failed", "exercise", exerciseName, "reps", set.Reps, "error", err)
		return nil, nil
	}
	if exists && set.WeightKg <= max {
		return nil, nil
	}

	rec := models.PersonalRecord{
		ID:           uuid.New(),
		ExerciseName: exerciseName,
		WeightKg:     set.WeightKg,
		Reps:         set.Reps,
		AchievedAt:   l.now(),
		Notes:        set.Notes,
		IsWarmup:     false,
	}

	if err := l.store.InsertRecord(ctx, rec, userID); err != nil {
		l.log.Error("record persist failed, returning detection anyway",
			"exercise", exerciseName, "reps", set.Reps, "weight_kg", set.WeightKg, "error", err)
		return &rec, err
	}
	return &rec, nil
}

// Current returns the record holding entry for the bucket, or nil.
func (l *Ledger) Current(ctx context.Context, exerciseName string, reps int, userID int) (*models.PersonalRecord, error) {
	return l.store.CurrentRecord(ctx, exerciseName, reps, userID)
}

// ByExercise returns all entries for an exercise, reps ascending then weight
// descending.
func (l *Ledger) ByExercise(ctx context.Context, exerciseName string, userID int) ([]models.PersonalRecord, error) {
	return l.store.RecordsByExercise(ctx, exerciseName, userID)
}

// All returns every entry, newest first.
func (l *Ledger) All(ctx context.Context, userID int) ([]models.PersonalRecord, error) {
	return l.store.AllRecords(ctx, 0, userID)
}

// Recent returns the n most recent entries.
func (l *Ledger) Recent(ctx context.Context, n int, userID int) ([]models.PersonalRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	return l.store.AllRecords(ctx, n, userID)
}
