package mcp

import (
	"context"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. *storage.DB satisfies
// it; tests use an in-memory fake.
type DataSource interface {
	AllRecords(ctx context.Context, limit int, userID int) ([]models.PersonalRecord, error)
	RecordsByExercise(ctx context.Context, exerciseName string, userID int) ([]models.PersonalRecord, error)
	GetRecordStats(ctx context.Context, userID int) (*storage.RecordStats, error)
	QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.Session, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
