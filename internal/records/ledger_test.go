package records

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/claude/gymtracker/internal/models"
)

// fakeStore is an in-memory Store for ledger tests.
type fakeStore struct {
	entries   []models.PersonalRecord
	insertErr error
	lookupErr error
}

func (f *fakeStore) InsertRecord(_ context.Context, rec models.PersonalRecord, _ int) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, rec)
	return nil
}

func (f *fakeStore) BucketMax(_ context.Context, name string, reps int, _ int) (float64, bool, error) {
	if f.lookupErr != nil {
		return 0, false, f.lookupErr
	}
	var max float64
	found := false
	for _, e := range f.entries {
		if e.ExerciseName == name && e.Reps == reps && (!found || e.WeightKg > max) {
			max = e.WeightKg
			found = true
		}
	}
	return max, found, nil
}

func (f *fakeStore) CurrentRecord(ctx context.Context, name string, reps int, userID int) (*models.PersonalRecord, error) {
	var best *models.PersonalRecord
	for i := range f.entries {
		e := &f.entries[i]
		if e.ExerciseName == name && e.Reps == reps && (best == nil || e.WeightKg > best.WeightKg) {
			best = e
		}
	}
	return best, nil
}

func (f *fakeStore) RecordsByExercise(_ context.Context, name string, _ int) ([]models.PersonalRecord, error) {
	var out []models.PersonalRecord
	for _, e := range f.entries {
		if e.ExerciseName == name {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Reps != out[j].Reps {
			return out[i].Reps < out[j].Reps
		}
		return out[i].WeightKg > out[j].WeightKg
	})
	return out, nil
}

func (f *fakeStore) AllRecords(_ context.Context, limit int, _ int) ([]models.PersonalRecord, error) {
	out := append([]models.PersonalRecord(nil), f.entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].AchievedAt.After(out[j].AchievedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func testLedger(store *fakeStore) *Ledger {
	l := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	l.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return l
}

func working(weight float64, reps int) models.SetLog {
	return models.SetLog{Reps: reps, WeightKg: weight}
}

// TestEvaluateFirstAndBeatenRecord covers the core scenario: 100kg×5 creates
// an entry, a following 95kg×5 does not.
func TestEvaluateFirstAndBeatenRecord(t *testing.T) {
	store := &fakeStore{}
	l := testLedger(store)
	ctx := context.Background()

	rec, err := l.Evaluate(ctx, working(100, 5), "Bench", 1)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec == nil {
		t.Fatal("first set should create a record")
	}
	if rec.WeightKg != 100 || rec.Reps != 5 || rec.ExerciseName != "Bench" {
		t.Errorf("record = %+v", rec)
	}
	if rec.IsWarmup {
		t.Error("minted entry carries IsWarmup = true; entries are always from working sets")
	}

	rec, err = l.Evaluate(ctx, working(95, 5), "Bench", 1)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec != nil {
		t.Errorf("95kg after 100kg should not be a record, got %+v", rec)
	}
	if len(store.entries) != 1 {
		t.Errorf("ledger has %d entries, want 1", len(store.entries))
	}
}

// TestEvaluateEqualWeightNotARecord pins that matching the current maximum is
// explicitly not a new record.
func TestEvaluateEqualWeightNotARecord(t *testing.T) {
	store := &fakeStore{}
	l := testLedger(store)
	ctx := context.Background()

	if rec, _ := l.Evaluate(ctx, working(100, 5), "Squat", 1); rec == nil {
		t.Fatal("first set should create a record")
	}
	if rec, _ := l.Evaluate(ctx, working(100, 5), "Squat", 1); rec != nil {
		t.Errorf("equal weight produced a record: %+v", rec)
	}
}

// TestWarmupNeverRecords: no warm-up set, regardless of weight, produces an
// entry.
func TestWarmupNeverRecords(t *testing.T) {
	store := &fakeStore{}
	l := testLedger(store)

	set := models.SetLog{Reps: 5, WeightKg: 500, IsWarmup: true}
	rec, err := l.Evaluate(context.Background(), set, "Deadlift", 1)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec != nil {
		t.Errorf("warm-up produced a record: %+v", rec)
	}
	if len(store.entries) != 0 {
		t.Errorf("ledger has %d entries, want 0", len(store.entries))
	}
}

// TestBucketsAreIndependent: a heavier weight at a different rep count never
// affects another bucket.
func TestBucketsAreIndependent(t *testing.T) {
	store := &fakeStore{}
	l := testLedger(store)
	ctx := context.Background()

	l.Evaluate(ctx, working(120, 3), "Squat", 1)
	rec, _ := l.Evaluate(ctx, working(100, 5), "Squat", 1)
	if rec == nil {
		t.Fatal("100kg×5 should be a record despite 120kg×3 existing")
	}
}

// TestMonotonicBuckets runs a random-ish sequence through one bucket and
// verifies the recorded maxima are strictly increasing and that entries appear
// exactly when the incoming weight beats the running maximum.
func TestMonotonicBuckets(t *testing.T) {
	store := &fakeStore{}
	l := testLedger(store)
	ctx := context.Background()

	weights := []float64{60, 80, 75, 80, 82.5, 90, 85, 90.5}
	var runningMax float64
	wantEntries := 0
	for _, w := range weights {
		rec, _ := l.Evaluate(ctx, working(w, 8), "Row", 1)
		if w > runningMax {
			runningMax = w
			wantEntries++
			if rec == nil {
				t.Errorf("weight %v should be a record", w)
			}
		} else if rec != nil {
			t.Errorf("weight %v should not beat max %v", w, runningMax)
		}
	}
	if len(store.entries) != wantEntries {
		t.Fatalf("ledger has %d entries, want %d", len(store.entries), wantEntries)
	}
	for i := 1; i < len(store.entries); i++ {
		if store.entries[i].WeightKg <= store.entries[i-1].WeightKg {
			t.Errorf("ledger weights not strictly increasing: %v then %v",
				store.entries[i-1].WeightKg, store.entries[i].WeightKg)
		}
	}
}

// TestEvaluatePersistFailure pins the detect-then-best-effort-persist policy:
// the detection is returned even when the write fails, with the error exposed.
func TestEvaluatePersistFailure(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("disk full")}
	l := testLedger(store)

	rec, err := l.Evaluate(context.Background(), working(100, 5), "Bench", 1)
	if rec == nil {
		t.Fatal("detection should be returned despite persist failure")
	}
	if err == nil {
		t.Fatal("persist failure should surface as the error value")
	}
}

// TestEvaluateLookupFailure: a fetch failure degrades to "no record", never
// an error to the caller.
func TestEvaluateLookupFailure(t *testing.T) {
	store := &fakeStore{lookupErr: errors.New("connection refused")}
	l := testLedger(store)

	rec, err := l.Evaluate(context.Background(), working(100, 5), "Bench", 1)
	if rec != nil || err != nil {
		t.Errorf("lookup failure: rec=%v err=%v, want nil/nil", rec, err)
	}
}

func TestRecentBounds(t *testing.T) {
	store := &fakeStore{}
	l := testLedger(store)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		l.Evaluate(ctx, working(float64(50+i*10), 5), "Press", 1)
	}

	recent, err := l.Recent(ctx, 3, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Recent(3) returned %d entries", len(recent))
	}
	// Newest first.
	if recent[0].WeightKg != 100 {
		t.Errorf("newest record weight = %v, want 100", recent[0].WeightKg)
	}

	if got, _ := l.Recent(ctx, 0, 1); got != nil {
		t.Errorf("Recent(0) = %v, want nil", got)
	}
}
