// Package report turns raw session data into monthly aggregates and renders
// them as shareable documents.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/claude/gymtracker/internal/models"
)

// ExerciseSummary holds the per-exercise totals for a month. Warm-up sets are
// excluded from every figure.
type ExerciseSummary struct {
	WorkingSets int     `json:"working_sets"`
	MaxWeightKg float64 `json:"max_weight_kg"`
	VolumeKg    float64 `json:"volume_kg"`
}

// MonthlyAggregate is the structured result of aggregating one calendar month.
// Days and Exercises carry the deterministic row/column ordering; Cells maps
// (day, exercise) to the rendered best-set string. An absent key means the
// exercise was not performed that day; an empty value means the claiming
// session held only warm-up sets.
type MonthlyAggregate struct {
	Month     time.Time                  `json:"month"`
	Days      []time.Time                `json:"days"`
	Exercises []string                   `json:"exercises"`
	Cells     map[CellKey]string         `json:"-"`
	Summary   map[string]ExerciseSummary `json:"summary"`

	TotalSets     int     `json:"total_sets"`
	TotalVolumeKg float64 `json:"total_volume_kg"`
}

// CellKey addresses one (day, exercise) cell. Day is the "2006-01-02" form of
// the local start of day.
type CellKey struct {
	Day      string
	Exercise string
}

// DistinctExercises returns the number of distinct exercise names in the month.
func (a *MonthlyAggregate) DistinctExercises() int {
	return len(a.Exercises)
}

// Cell returns the rendered cell for a day and exercise, or "" if the
// exercise was not performed that day.
func (a *MonthlyAggregate) Cell(day time.Time, exercise string) string {
	return a.Cells[CellKey{Day: day.Format("2006-01-02"), Exercise: exercise}]
}

// AggregateMonth computes the monthly aggregate over the given sessions.
// Sessions are expected pre-filtered to the half-open interval
// [start of month, start of next month) and ordered ascending by date;
// sessions outside the window are dropped. Day grouping uses the month's
// location.
//
// Cell policy: for each (day, exercise) only the first session that day
// containing the exercise contributes; within it the working set with the
// maximum weight is shown. Later sessions the same day are ignored for that
// cell, even when the first session held only warm-up sets and leaves the
// cell empty. Summary totals still include every working set of every
// session.
func AggregateMonth(sessions []models.Session, month time.Time) MonthlyAggregate {
	loc := month.Location()
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	agg := MonthlyAggregate{
		Month:   start,
		Cells:   make(map[CellKey]string),
		Summary: make(map[string]ExerciseSummary),
	}

	daySeen := make(map[string]time.Time)

	for _, s := range sessions {
		d := s.Date.In(loc)
		if d.Before(start) || !d.Before(end) {
			continue
		}
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		dayKey := day.Format("2006-01-02")
		daySeen[dayKey] = day

		for _, es := range s.Exercises {
			best, hasBest := bestWorkingSet(es.Sets)

			sum := agg.Summary[es.ExerciseName]
			for _, set := range es.Sets {
				if set.IsWarmup {
					continue
				}
				sum.WorkingSets++
				sum.VolumeKg += set.WeightKg * float64(set.Reps)
				if set.WeightKg > sum.MaxWeightKg {
					sum.MaxWeightKg = set.WeightKg
				}
			}
			agg.Summary[es.ExerciseName] = sum

			key := CellKey{Day: dayKey, Exercise: es.ExerciseName}
			if _, taken := agg.Cells[key]; !taken {
				cell := ""
				if hasBest {
					cell = fmt.Sprintf("%.1f × %d", best.WeightKg, best.Reps)
				}
				agg.Cells[key] = cell
			}
		}
	}

	for name, sum := range agg.Summary {
		agg.Exercises = append(agg.Exercises, name)
		agg.TotalSets += sum.WorkingSets
		agg.TotalVolumeKg += sum.VolumeKg
	}
	sort.Strings(agg.Exercises)

	for _, day := range daySeen {
		agg.Days = append(agg.Days, day)
	}
	sort.Slice(agg.Days, func(i, j int) bool { return agg.Days[i].Before(agg.Days[j]) })

	return agg
}

// bestWorkingSet returns the highest-weight non-warm-up set.
func bestWorkingSet(sets []models.SetLog) (models.SetLog, bool) {
	var best models.SetLog
	found := false
	for _, set := range sets {
		if set.IsWarmup {
			continue
		}
		if !found || set.WeightKg > best.WeightKg {
			best = set
			found = true
		}
	}
	return best, found
}
