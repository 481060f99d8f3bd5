package storage

import (
	"context"
	"fmt"
	"time"
)

// ExerciseRecordStat holds ledger statistics for a single exercise.
type ExerciseRecordStat struct {
	ExerciseName string    `json:"exercise_name"`
	MaxWeightKg  float64   `json:"max_weight_kg"`
	RecordCount  int64     `json:"record_count"`
	FirstRecord  time.Time `json:"first_record"`
	LatestRecord time.Time `json:"latest_record"`
}

// RecordStats holds aggregate statistics over the whole ledger.
type RecordStats struct {
	TotalRecords      int64                `json:"total_records"`
	DistinctExercises int64                `json:"distinct_exercises"`
	TotalVolumeKg     float64              `json:"total_volume_kg"`
	PerExercise       []ExerciseRecordStat `json:"per_exercise"`
}

// GetRecordStats returns aggregate ledger statistics: global totals plus
// per-exercise max weight, entry count, and first/latest record times.
func (db *DB) GetRecordStats(ctx context.Context, userID int) (*RecordStats, error) {
	stats := &RecordStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(DISTINCT exercise_name),
		        COALESCE(SUM(weight_kg * reps), 0)
		 FROM personal_records WHERE user_id = $1`, userID,
	).Scan(&stats.TotalRecords, &stats.DistinctExercises, &stats.TotalVolumeKg)
	if err != nil {
		return nil, fmt.Errorf("querying ledger totals: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise_name,
		        MAX(weight_kg),
		        COUNT(*),
		        MIN(achieved_at),
		        MAX(achieved_at)
		 FROM personal_records
		 WHERE user_id = $1
		 GROUP BY exercise_name
		 ORDER BY exercise_name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying per-exercise stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s ExerciseRecordStat
		if err := rows.Scan(&s.ExerciseName, &s.MaxWeightKg, &s.RecordCount, &s.FirstRecord, &s.LatestRecord); err != nil {
			return nil, fmt.Errorf("scanning exercise stats: %w", err)
		}
		stats.PerExercise = append(stats.PerExercise, s)
	}
	return stats, rows.Err()
}
