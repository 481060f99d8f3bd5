package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/gymtracker/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Retrieve personal record entries from the append-only ledger. Records are tracked per (exercise, rep count) bucket; weights are kilograms."),
	mcp.WithString("exercise", mcp.Description("Filter by exact exercise name. When set, entries sort by reps ascending then weight descending; otherwise newest first.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return. Defaults to 100, ignored when exercise is set.")),
)

var toolGetRecordStats = mcp.NewTool("get_record_stats",
	mcp.WithDescription("Aggregate ledger statistics: total entries, distinct exercises, total volume (sum of weight × reps), plus per-exercise max weight, entry count, and first/latest record times."),
)

var toolGetTrainingVolume = mcp.NewTool("get_training_volume",
	mcp.WithDescription("Aggregated monthly training data: per-exercise working-set counts, max weights, and volume, plus global totals. Warm-up sets are excluded."),
	mcp.WithString("month", mcp.Required(), mcp.Description("Calendar month, YYYY-MM")),
)

var toolGetMonthlyReport = mcp.NewTool("get_monthly_report",
	mcp.WithDescription("The rendered monthly progress report as Markdown, the same document the report file contains."),
	mcp.WithString("month", mcp.Required(), mcp.Description("Calendar month, YYYY-MM")),
)

// --- Tool handlers ---

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	if exercise := req.GetString("exercise", ""); exercise != "" {
		recs, err := h.ds.RecordsByExercise(ctx, exercise, uid)
		if err != nil {
			h.log.Error("mcp get_personal_records", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(recs)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	limit := req.GetInt("limit", 100)
	recs, err := h.ds.AllRecords(ctx, limit, uid)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(recs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecordStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetRecordStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_record_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) monthAggregate(ctx context.Context, req mcp.CallToolRequest) (*report.MonthlyAggregate, *mcp.CallToolResult) {
	monthStr, err := req.RequireString("month")
	if err != nil {
		return nil, mcp.NewToolResultError("month parameter is required")
	}
	month, err := time.ParseInLocation("2006-01", monthStr, time.Local)
	if err != nil {
		return nil, mcp.NewToolResultError("month must be YYYY-MM")
	}

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.QuerySessions(ctx, start, end, uid)
	if err != nil {
		// Degrade to an empty month rather than failing the tool call.
		h.log.Warn("mcp month query failed, using empty month", "month", monthStr, "error", err)
		sessions = nil
	}

	agg := report.AggregateMonth(sessions, start)
	return &agg, nil
}

func (h *handlers) getTrainingVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agg, errResult := h.monthAggregate(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	result, err := mcp.NewToolResultJSON(agg)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMonthlyReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agg, errResult := h.monthAggregate(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	return mcp.NewToolResultText(string(report.Render(*agg))), nil
}

// --- Resource handlers ---

func (h *handlers) currentRecords(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	recs, err := h.ds.AllRecords(ctx, 50, uid)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(recs)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
