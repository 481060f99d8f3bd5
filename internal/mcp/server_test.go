package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	if id := UserIDFromContext(context.Background()); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

type fakeDataSource struct {
	sessions   []models.Session
	sessionErr error
}

func (f *fakeDataSource) AllRecords(context.Context, int, int) ([]models.PersonalRecord, error) {
	return nil, nil
}

func (f *fakeDataSource) RecordsByExercise(context.Context, string, int) ([]models.PersonalRecord, error) {
	return nil, nil
}

func (f *fakeDataSource) GetRecordStats(context.Context, int) (*storage.RecordStats, error) {
	return &storage.RecordStats{}, nil
}

func (f *fakeDataSource) QuerySessions(context.Context, time.Time, time.Time, int) ([]models.Session, error) {
	return f.sessions, f.sessionErr
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func testHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestGetMonthlyReportTool(t *testing.T) {
	ds := &fakeDataSource{
		sessions: []models.Session{{
			Date: time.Date(2025, 6, 3, 18, 0, 0, 0, time.Local),
			Exercises: []models.ExerciseSession{{
				ExerciseName: "Squat",
				Sets:         []models.SetLog{{WeightKg: 100, Reps: 5}},
			}},
		}},
	}
	h := testHandlers(ds)

	result, err := h.getMonthlyReport(context.Background(), callRequest(map[string]any{"month": "2025-06"}))
	if err != nil {
		t.Fatalf("getMonthlyReport: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %v", result.Content)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", result.Content[0])
	}
	if !strings.Contains(text.Text, "100.0 × 5") {
		t.Errorf("report missing best set:\n%s", text.Text)
	}
}

func TestGetMonthlyReportRequiresMonth(t *testing.T) {
	h := testHandlers(&fakeDataSource{})

	result, err := h.getMonthlyReport(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("getMonthlyReport: %v", err)
	}
	if !result.IsError {
		t.Error("missing month accepted")
	}

	result, _ = h.getMonthlyReport(context.Background(), callRequest(map[string]any{"month": "June"}))
	if !result.IsError {
		t.Error("malformed month accepted")
	}
}

// TestGetTrainingVolumeFetchFailure: a store failure degrades to an empty,
// valid month instead of a tool error.
func TestGetTrainingVolumeFetchFailure(t *testing.T) {
	h := testHandlers(&fakeDataSource{sessionErr: errors.New("connection refused")})

	result, err := h.getTrainingVolume(context.Background(), callRequest(map[string]any{"month": "2025-06"}))
	if err != nil {
		t.Fatalf("getTrainingVolume: %v", err)
	}
	if result.IsError {
		t.Fatalf("fetch failure surfaced as tool error: %v", result.Content)
	}
}
