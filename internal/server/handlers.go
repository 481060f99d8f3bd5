package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/gymtracker/internal/models"
	"github.com/claude/gymtracker/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleAllRecords(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	var (
		recs []models.PersonalRecord
		err  error
	)
	if limit > 0 {
		recs, err = s.ledger.Recent(r.Context(), limit, defaultUserID)
	} else {
		recs, err = s.ledger.All(r.Context(), defaultUserID)
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []models.PersonalRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleRecordsByExercise(w http.ResponseWriter, r *http.Request) {
	exercise := chi.URLParam(r, "exercise")

	if repsStr := r.URL.Query().Get("reps"); repsStr != "" {
		reps, err := strconv.Atoi(repsStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid reps"})
			return
		}
		rec, err := s.ledger.Current(r.Context(), exercise, reps, defaultUserID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if rec == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no record for bucket"})
			return
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}

	recs, err := s.ledger.ByExercise(r.Context(), exercise, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if recs == nil {
		recs = []models.PersonalRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleRecordStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetRecordStats(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type createSessionRequest struct {
	Date        time.Time `json:"date"`
	PlanName    *string   `json:"plan_name,omitempty"`
	Label       *string   `json:"label,omitempty"`
	DurationSec *int      `json:"duration_sec,omitempty"`
	Completed   bool      `json:"completed"`
	Notes       *string   `json:"notes,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	sess := models.Session{
		ID:          uuid.New(),
		Date:        req.Date,
		PlanName:    req.PlanName,
		Label:       req.Label,
		DurationSec: req.DurationSec,
		Completed:   req.Completed,
		Notes:       req.Notes,
	}
	if err := s.db.InsertSession(r.Context(), &sess, defaultUserID); err != nil {
		s.log.Error("session insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

type logSetRequest struct {
	ExerciseName string   `json:"exercise_name"`
	Reps         int      `json:"reps"`
	WeightKg     float64  `json:"weight_kg"`
	RPE          *float64 `json:"rpe,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	RestSec      *int     `json:"rest_sec,omitempty"`
	IsWarmup     bool     `json:"is_warmup"`
}

type logSetResponse struct {
	Set    models.SetLog          `json:"set"`
	Record *models.PersonalRecord `json:"record,omitempty"`
}

// handleLogSet appends a set to a session and evaluates it against the record
// ledger. A persist failure inside the ledger does not hide the detected
// record from the response.
func (s *Server) handleLogSet(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	var req logSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise_name required"})
		return
	}
	if req.Reps < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reps must be >= 0"})
		return
	}

	set := models.SetLog{
		ID:       uuid.New(),
		Reps:     req.Reps,
		WeightKg: req.WeightKg,
		RPE:      req.RPE,
		Notes:    req.Notes,
		RestSec:  req.RestSec,
		IsWarmup: req.IsWarmup,
	}
	if err := s.db.AddSet(r.Context(), sessionID, req.ExerciseName, set); err != nil {
		s.log.Error("set insert failed", "session", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	rec, evalErr := s.ledger.Evaluate(r.Context(), set, req.ExerciseName, defaultUserID)
	if evalErr != nil {
		s.log.Warn("record persist degraded", "exercise", req.ExerciseName, "error", evalErr)
	}

	writeJSON(w, http.StatusCreated, logSetResponse{Set: set, Record: rec})
}

func (s *Server) handleQuerySessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.QuerySessions(r.Context(), start, end, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	sess, err := s.db.GetSession(r.Context(), id, defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}
	if err := s.db.DeleteSession(r.Context(), id, defaultUserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var plan models.Plan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	plan.ID = uuid.New()
	for i := range plan.Exercises {
		plan.Exercises[i].ID = uuid.New()
		plan.Exercises[i].PlanID = plan.ID
		plan.Exercises[i].Position = i
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	if err := plan.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.db.InsertPlan(r.Context(), &plan, defaultUserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (s *Server) handleQueryPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.db.QueryPlans(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if plans == nil {
		plans = []models.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan ID"})
		return
	}
	if err := s.db.DeletePlan(r.Context(), id, defaultUserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.GetSettings(r.Context(), defaultUserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.db.SaveSettings(r.Context(), settings, defaultUserID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// handleMonthlyReport aggregates one calendar month and returns the rendered
// document. A store failure degrades to an empty, valid report rather than an
// error. With ?persist=1 the document is also written to the reports dir.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, err := time.ParseInLocation("2006-01", chi.URLParam(r, "month"), time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "month must be YYYY-MM"})
		return
	}

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	sessions, err := s.db.QuerySessions(r.Context(), start, end, defaultUserID)
	if err != nil {
		s.log.Warn("session fetch failed, rendering empty report", "month", month.Format("2006-01"), "error", err)
		sessions = nil
	}

	agg := report.AggregateMonth(sessions, start)
	doc := report.Render(agg)

	if r.URL.Query().Get("persist") == "1" {
		path, err := report.Persist(s.reportsDir, doc, start)
		if err != nil {
			s.log.Error("report persist failed", "month", month.Format("2006-01"), "error", err)
		} else {
			w.Header().Set("X-Report-Path", path)
		}
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(doc)
}

// parseTimeRange reads start/end query params (RFC 3339 or YYYY-MM-DD),
// defaulting to the last 30 days.
func parseTimeRange(r *http.Request) (time.Time, time.Time, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("end"); v != "" {
		t, err := parseFlexTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = t
	}
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := parseFlexTime(v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = t
	}
	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
