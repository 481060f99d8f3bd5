package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/gymtracker/internal/models"
	"github.com/jackc/pgx/v5"
)

// InsertRecord appends a ledger entry. The ledger is append-only: there is no
// update or delete path.
func (db *DB) InsertRecord(ctx context.Context, rec models.PersonalRecord, userID int) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO personal_records (id, user_id, exercise_name, weight_kg, reps, achieved_at, notes, is_warmup)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rec.ID, userID, rec.ExerciseName, rec.WeightKg, rec.Reps, rec.AchievedAt, rec.Notes, rec.IsWarmup)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// BucketMax returns the maximum recorded weight for the (exercise, reps)
// bucket, or false if the bucket is empty.
func (db *DB) BucketMax(ctx context.Context, exerciseName string, reps int, userID int) (float64, bool, error) {
	var max float64
	err := db.Pool.QueryRow(ctx,
		`SELECT weight_kg FROM personal_records
		 WHERE user_id = $1 AND exercise_name = $2 AND reps = $3
		 ORDER BY weight_kg DESC LIMIT 1`,
		userID, exerciseName, reps).Scan(&max)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("querying bucket max: %w", err)
	}
	return max, true, nil
}

// CurrentRecord returns the highest-weight ledger entry for the bucket, or
// nil if none exists.
func (db *DB) CurrentRecord(ctx context.Context, exerciseName string, reps int, userID int) (*models.PersonalRecord, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, exercise_name, weight_kg, reps, achieved_at, notes, is_warmup
		 FROM personal_records
		 WHERE user_id = $1 AND exercise_name = $2 AND reps = $3
		 ORDER BY weight_kg DESC LIMIT 1`,
		userID, exerciseName, reps)

	var r models.PersonalRecord
	err := row.Scan(&r.ID, &r.ExerciseName, &r.WeightKg, &r.Reps, &r.AchievedAt, &r.Notes, &r.IsWarmup)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying current record: %w", err)
	}
	return &r, nil
}

// RecordsByExercise returns all ledger entries for an exercise, ascending by
// reps then descending by weight.
func (db *DB) RecordsByExercise(ctx context.Context, exerciseName string, userID int) ([]models.PersonalRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, exercise_name, weight_kg, reps, achieved_at, notes, is_warmup
		 FROM personal_records
		 WHERE user_id = $1 AND exercise_name = $2
		 ORDER BY reps ASC, weight_kg DESC`,
		userID, exerciseName)
	if err != nil {
		return nil, fmt.Errorf("querying records by exercise: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// AllRecords returns every ledger entry, newest first. A limit of 0 means no
// limit.
func (db *DB) AllRecords(ctx context.Context, limit int, userID int) ([]models.PersonalRecord, error) {
	query := `SELECT id, exercise_name, weight_kg, reps, achieved_at, notes, is_warmup
	          FROM personal_records
	          WHERE user_id = $1
	          ORDER BY achieved_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]models.PersonalRecord, error) {
	var result []models.PersonalRecord
	for rows.Next() {
		var r models.PersonalRecord
		if err := rows.Scan(&r.ID, &r.ExerciseName, &r.WeightKg, &r.Reps, &r.AchievedAt, &r.Notes, &r.IsWarmup); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
