package server

import (
	"encoding/json"
	"net/http"

	"github.com/claude/gymtracker/internal/timer"
	"github.com/go-chi/chi/v5"
)

type timerStartRequest struct {
	DurationSec  int    `json:"duration_sec"`
	ExerciseName string `json:"exercise_name,omitempty"`
	Label        string `json:"label,omitempty"`
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req timerStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.DurationSec <= 0 {
		req.DurationSec = s.defaultRestSec
	}

	s.coord.Start(req.DurationSec, req.ExerciseName, req.Label)
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

func (s *Server) handleTimerAddMinute(w http.ResponseWriter, r *http.Request) {
	s.coord.AddMinute()
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

func (s *Server) handleTimerSkip(w http.ResponseWriter, r *http.Request) {
	s.coord.Skip()
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	s.coord.Stop()
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

// handlePublishEvent injects a control event into the process-wide bus, the
// way a lock-screen action or shortcut invocation would. Unknown signals are
// rejected; signals arriving while the timer is Idle are ignorable no-ops for
// the subscriber.
func (s *Server) handlePublishEvent(w http.ResponseWriter, r *http.Request) {
	sig := timer.Signal(chi.URLParam(r, "signal"))
	if !timer.KnownSignal(sig) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown signal"})
		return
	}
	s.bus.Publish(sig)
	writeJSON(w, http.StatusAccepted, map[string]string{"signal": string(sig)})
}

// handleTimerLive streams the live-status surface over SSE. Each event is a
// JSON-encoded timer.LiveState; the stream ends when the client disconnects.
func (s *Server) handleTimerLive(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch, cancel := s.hub.Watch()
	defer cancel()

	// Send the current state immediately so late subscribers catch up.
	if state, ok := s.hub.Current(); ok {
		writeSSE(w, state)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, state)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, state timer.LiveState) {
	data, err := json.Marshal(state)
	if err != nil {
		return
	}
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
}
