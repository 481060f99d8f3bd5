package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertSession inserts a session with its exercise sessions and set logs.
func (db *DB) InsertSession(ctx context.Context, s *models.Session, userID int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO sessions (id, user_id, date, plan_name, label, duration_sec, completed, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		s.ID, userID, s.Date, s.PlanName, s.Label, s.DurationSec, s.Completed, s.Notes)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	for _, es := range s.Exercises {
		_, err = tx.Exec(ctx,
			`INSERT INTO exercise_sessions (id, session_id, exercise_name, position)
			 VALUES ($1,$2,$3,$4)`,
			es.ID, s.ID, es.ExerciseName, es.Position)
		if err != nil {
			return fmt.Errorf("inserting exercise session: %w", err)
		}
		for _, set := range es.Sets {
			if err := insertSetLog(ctx, tx, es.ID, set); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing session: %w", err)
	}
	return nil
}

func insertSetLog(ctx context.Context, tx pgx.Tx, exerciseSessionID uuid.UUID, set models.SetLog) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO set_logs (id, exercise_session_id, set_number, reps, weight_kg, rpe, notes, rest_sec, is_warmup)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		set.ID, exerciseSessionID, set.SetNumber, set.Reps, set.WeightKg,
		set.RPE, set.Notes, set.RestSec, set.IsWarmup)
	if err != nil {
		return fmt.Errorf("inserting set log: %w", err)
	}
	return nil
}

// AddSet appends a set to the named exercise within a session, creating the
// exercise session if the session has none for that name yet. Warm-up sets go
// to the head of the set order; working sets to the tail.
func (db *DB) AddSet(ctx context.Context, sessionID uuid.UUID, exerciseName string, set models.SetLog) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var esID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM exercise_sessions WHERE session_id = $1 AND exercise_name = $2`,
		sessionID, exerciseName).Scan(&esID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("looking up exercise session: %w", err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		esID = uuid.New()
		var pos int
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(position)+1, 0) FROM exercise_sessions WHERE session_id = $1`,
			sessionID).Scan(&pos); err != nil {
			return fmt.Errorf("next exercise position: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO exercise_sessions (id, session_id, exercise_name, position)
			 VALUES ($1,$2,$3,$4)`,
			esID, sessionID, exerciseName, pos)
		if err != nil {
			return fmt.Errorf("inserting exercise session: %w", err)
		}
	}

	if set.IsWarmup {
		// Warm-up ramp placement: shift existing sets down, insert at the head.
		_, err = tx.Exec(ctx,
			`UPDATE set_logs SET set_number = set_number + 1 WHERE exercise_session_id = $1`, esID)
		if err != nil {
			return fmt.Errorf("shifting set order: %w", err)
		}
		set.SetNumber = 0
	} else {
		if err := tx.QueryRow(ctx,
			`SELECT COALESCE(MAX(set_number)+1, 0) FROM set_logs WHERE exercise_session_id = $1`,
			esID).Scan(&set.SetNumber); err != nil {
			return fmt.Errorf("next set number: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO set_logs (id, exercise_session_id, set_number, reps, weight_kg, rpe, notes, rest_sec, is_warmup)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		set.ID, esID, set.SetNumber, set.Reps, set.WeightKg,
		set.RPE, set.Notes, set.RestSec, set.IsWarmup)
	if err != nil {
		return fmt.Errorf("inserting set log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing set: %w", err)
	}
	return nil
}

// QuerySessions retrieves sessions with date in the half-open range
// [start, end), ascending by date, with exercise sessions and set logs loaded.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.Session, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, plan_name, label, duration_sec, completed, notes
		 FROM sessions
		 WHERE date >= $1 AND date < $2 AND user_id = $3
		 ORDER BY date ASC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.Date, &s.PlanName, &s.Label, &s.DurationSec, &s.Completed, &s.Notes); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := db.loadSessionDetail(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// GetSession retrieves a single session by ID with all nested data.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.Session, error) {
	var s models.Session
	err := db.Pool.QueryRow(ctx,
		`SELECT id, date, plan_name, label, duration_sec, completed, notes
		 FROM sessions WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&s.ID, &s.Date, &s.PlanName, &s.Label, &s.DurationSec, &s.Completed, &s.Notes)
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	if err := db.loadSessionDetail(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a session; exercise sessions and set logs cascade.
// Ledger entries produced by the session are unaffected.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID, userID int) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (db *DB) loadSessionDetail(ctx context.Context, s *models.Session) error {
	esRows, err := db.Pool.Query(ctx,
		`SELECT id, exercise_name, position
		 FROM exercise_sessions WHERE session_id = $1 ORDER BY position ASC`,
		s.ID)
	if err != nil {
		return fmt.Errorf("querying exercise sessions: %w", err)
	}
	defer esRows.Close()

	for esRows.Next() {
		var es models.ExerciseSession
		es.SessionID = s.ID
		if err := esRows.Scan(&es.ID, &es.ExerciseName, &es.Position); err != nil {
			return fmt.Errorf("scanning exercise session: %w", err)
		}
		s.Exercises = append(s.Exercises, es)
	}
	if err := esRows.Err(); err != nil {
		return err
	}

	for i := range s.Exercises {
		setRows, err := db.Pool.Query(ctx,
			`SELECT id, set_number, reps, weight_kg, rpe, notes, rest_sec, is_warmup
			 FROM set_logs WHERE exercise_session_id = $1 ORDER BY set_number ASC`,
			s.Exercises[i].ID)
		if err != nil {
			return fmt.Errorf("querying set logs: %w", err)
		}
		for setRows.Next() {
			var set models.SetLog
			if err := setRows.Scan(&set.ID, &set.SetNumber, &set.Reps, &set.WeightKg,
				&set.RPE, &set.Notes, &set.RestSec, &set.IsWarmup); err != nil {
				setRows.Close()
				return fmt.Errorf("scanning set log: %w", err)
			}
			s.Exercises[i].Sets = append(s.Exercises[i].Sets, set)
		}
		err = setRows.Err()
		setRows.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
