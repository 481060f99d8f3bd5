package storage

import (
	"context"
	"fmt"

	"github.com/claude/gymtracker/internal/models"
	"github.com/google/uuid"
)

// InsertPlan inserts a plan with its exercises and weekly schedule.
func (db *DB) InsertPlan(ctx context.Context, p *models.Plan, userID int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO plans (id, user_id, name, plan_type, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		p.ID, userID, p.Name, p.Type, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for _, ex := range p.Exercises {
		_, err = tx.Exec(ctx,
			`INSERT INTO exercises (id, plan_id, name, planned_sets, target_reps, notes,
			     label, muscle_group, equipment, is_bodyweight, is_favorite, position)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			ex.ID, p.ID, ex.Name, ex.PlannedSets, ex.TargetReps, ex.Notes,
			ex.Label, ex.MuscleGroup, ex.Equipment, ex.IsBodyweight, ex.IsFavorite, ex.Position)
		if err != nil {
			return fmt.Errorf("inserting exercise: %w", err)
		}
	}

	for _, e := range p.Schedule {
		_, err = tx.Exec(ctx,
			`INSERT INTO plan_schedule (plan_id, weekday, label) VALUES ($1,$2,$3)`,
			p.ID, e.Weekday, e.Label)
		if err != nil {
			return fmt.Errorf("inserting schedule entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing plan: %w", err)
	}
	return nil
}

// QueryPlans returns all plans with exercises and schedules loaded.
func (db *DB) QueryPlans(ctx context.Context, userID int) ([]models.Plan, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, plan_type, created_at
		 FROM plans WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.Plan
	for rows.Next() {
		var p models.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Type, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if err := db.loadPlanDetail(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// DeletePlan removes a plan; its exercises and schedule cascade. Session
// history and ledger entries are unaffected (they hold name snapshots only).
func (db *DB) DeletePlan(ctx context.Context, id uuid.UUID, userID int) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

func (db *DB) loadPlanDetail(ctx context.Context, p *models.Plan) error {
	exRows, err := db.Pool.Query(ctx,
		`SELECT id, name, planned_sets, target_reps, notes, label,
		        muscle_group, equipment, is_bodyweight, is_favorite, position
		 FROM exercises WHERE plan_id = $1 ORDER BY position ASC`, p.ID)
	if err != nil {
		return fmt.Errorf("querying exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var ex models.Exercise
		ex.PlanID = p.ID
		if err := exRows.Scan(&ex.ID, &ex.Name, &ex.PlannedSets, &ex.TargetReps, &ex.Notes,
			&ex.Label, &ex.MuscleGroup, &ex.Equipment, &ex.IsBodyweight, &ex.IsFavorite, &ex.Position); err != nil {
			return fmt.Errorf("scanning exercise: %w", err)
		}
		p.Exercises = append(p.Exercises, ex)
	}
	if err := exRows.Err(); err != nil {
		return err
	}

	schedRows, err := db.Pool.Query(ctx,
		`SELECT weekday, label FROM plan_schedule WHERE plan_id = $1 ORDER BY weekday ASC`, p.ID)
	if err != nil {
		return fmt.Errorf("querying schedule: %w", err)
	}
	defer schedRows.Close()

	for schedRows.Next() {
		var e models.ScheduleEntry
		if err := schedRows.Scan(&e.Weekday, &e.Label); err != nil {
			return fmt.Errorf("scanning schedule entry: %w", err)
		}
		p.Schedule = append(p.Schedule, e)
	}
	return schedRows.Err()
}
