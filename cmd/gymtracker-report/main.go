package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/gymtracker/internal/config"
	"github.com/claude/gymtracker/internal/report"
	"github.com/claude/gymtracker/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	monthStr := flag.String("month", "", "calendar month to render, YYYY-MM (default: previous month)")
	force := flag.Bool("force", false, "re-render even if the data is unchanged")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	month := previousMonth(time.Now())
	if *monthStr != "" {
		parsed, err := time.ParseInLocation("2006-01", *monthStr, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Usage: gymtracker-report -config config.yaml [-month YYYY-MM] [-force]\n")
			flag.PrintDefaults()
			os.Exit(1)
		}
		month = parsed
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := storage.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	sessions, err := db.QuerySessions(ctx, start, end, 1)
	if err != nil {
		// A fetch failure still produces a valid, empty report.
		log.Warn("session fetch failed, rendering empty report", "error", err)
		sessions = nil
	}

	agg := report.AggregateMonth(sessions, start)
	doc := report.Render(agg)
	hash := report.Hash(doc)

	state, err := report.OpenStateDB(cfg.Reports.Dir)
	if err != nil {
		log.Error("failed to open render state", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if !*force {
		current, err := state.IsCurrent(start, hash)
		if err != nil {
			log.Warn("render state check failed", "error", err)
		} else if current {
			log.Info("report unchanged, skipping", "month", start.Format("2006-01"))
			return
		}
	}

	path, err := report.Persist(cfg.Reports.Dir, doc, start)
	if err != nil {
		log.Error("report write failed", "error", err)
		os.Exit(1)
	}
	if err := state.MarkRendered(start, hash); err != nil {
		log.Warn("render state update failed", "error", err)
	}

	log.Info("report written",
		"path", path,
		"days", len(agg.Days),
		"exercises", agg.DistinctExercises(),
		"sets", agg.TotalSets,
		"volume_kg", fmt.Sprintf("%.1f", agg.TotalVolumeKg),
	)
}

// previousMonth returns the first day of the month before t. Reports are
// usually generated just after a month closes.
func previousMonth(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
	return first.AddDate(0, -1, 0)
}
