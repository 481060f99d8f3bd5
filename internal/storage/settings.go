package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/gymtracker/internal/models"
	"github.com/jackc/pgx/v5"
)

// GetSettings returns the settings row for the user, lazily inserting the
// defaults if no row exists yet. At most one row per user is meaningful.
func (db *DB) GetSettings(ctx context.Context, userID int) (*models.Settings, error) {
	s, err := db.querySettings(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := models.DefaultSettings()
		if err := db.SaveSettings(ctx, defaults, userID); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SaveSettings upserts the user's settings row.
func (db *DB) SaveSettings(ctx context.Context, s models.Settings, userID int) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO settings (user_id, unit, default_rest_sec,
		     weight_increment_kg, weight_increment_lb,
		     dumbbell_increment_kg, dumbbell_increment_lb,
		     progression, progression_percent)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 ON CONFLICT (user_id) DO UPDATE SET
		     unit = EXCLUDED.unit,
		     default_rest_sec = EXCLUDED.default_rest_sec,
		     weight_increment_kg = EXCLUDED.weight_increment_kg,
		     weight_increment_lb = EXCLUDED.weight_increment_lb,
		     dumbbell_increment_kg = EXCLUDED.dumbbell_increment_kg,
		     dumbbell_increment_lb = EXCLUDED.dumbbell_increment_lb,
		     progression = EXCLUDED.progression,
		     progression_percent = EXCLUDED.progression_percent`,
		userID, s.Unit, s.DefaultRestSec,
		s.WeightIncrementKg, s.WeightIncrementLb,
		s.DumbbellIncrementKg, s.DumbbellIncrementLb,
		s.Progression, s.ProgressionPercent)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

func (db *DB) querySettings(ctx context.Context, userID int) (*models.Settings, error) {
	var s models.Settings
	err := db.Pool.QueryRow(ctx,
		`SELECT unit, default_rest_sec,
		        weight_increment_kg, weight_increment_lb,
		        dumbbell_increment_kg, dumbbell_increment_lb,
		        progression, progression_percent
		 FROM settings WHERE user_id = $1`, userID,
	).Scan(&s.Unit, &s.DefaultRestSec,
		&s.WeightIncrementKg, &s.WeightIncrementLb,
		&s.DumbbellIncrementKg, &s.DumbbellIncrementLb,
		&s.Progression, &s.ProgressionPercent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	return &s, nil
}
