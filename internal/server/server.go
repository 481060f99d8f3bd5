package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/gymtracker/internal/records"
	"github.com/claude/gymtracker/internal/storage"
	"github.com/claude/gymtracker/internal/timer"
	"github.com/go-chi/chi/v5"
)

// defaultUserID scopes all data in this single-user deployment.
const defaultUserID = 1

// Server holds dependencies for HTTP handlers.
type Server struct {
	db             *storage.DB
	ledger         *records.Ledger
	coord          *timer.Coordinator
	bus            *timer.Bus
	hub            *LiveHub
	log            *slog.Logger
	apiKey         string
	reportsDir     string
	defaultRestSec int
	router         chi.Router
}

// Options carries the non-service configuration for a Server.
type Options struct {
	APIKey         string
	ReportsDir     string
	DefaultRestSec int
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, ledger *records.Ledger, coord *timer.Coordinator, bus *timer.Bus, hub *LiveHub, opts Options, log *slog.Logger) *Server {
	s := &Server{
		db:             db,
		ledger:         ledger,
		coord:          coord,
		bus:            bus,
		hub:            hub,
		log:            log,
		apiKey:         opts.APIKey,
		reportsDir:     opts.ReportsDir,
		defaultRestSec: opts.DefaultRestSec,
		router:         chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read endpoints
	s.router.Get("/api/v1/records", s.handleAllRecords)
	s.router.Get("/api/v1/records/stats", s.handleRecordStats)
	s.router.Get("/api/v1/records/{exercise}", s.handleRecordsByExercise)
	s.router.Get("/api/v1/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/plans", s.handleQueryPlans)
	s.router.Get("/api/v1/settings", s.handleGetSettings)
	s.router.Get("/api/v1/reports/{month}", s.handleMonthlyReport)
	s.router.Get("/api/v1/timer", s.handleTimerState)
	s.router.Get("/api/v1/timer/live", s.handleTimerLive)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleCreateSession)
		r.Post("/api/v1/sessions/{id}/sets", s.handleLogSet)
		r.Delete("/api/v1/sessions/{id}", s.handleDeleteSession)
		r.Post("/api/v1/plans", s.handleCreatePlan)
		r.Delete("/api/v1/plans/{id}", s.handleDeletePlan)
		r.Put("/api/v1/settings", s.handleSaveSettings)
		r.Post("/api/v1/timer/start", s.handleTimerStart)
		r.Post("/api/v1/timer/add-minute", s.handleTimerAddMinute)
		r.Post("/api/v1/timer/skip", s.handleTimerSkip)
		r.Post("/api/v1/timer/stop", s.handleTimerStop)
		r.Post("/api/v1/events/{signal}", s.handlePublishEvent)
	})
}

// SetMCP mounts the MCP transport handler at /mcp.
func (s *Server) SetMCP(handler http.Handler) {
	s.router.Handle("/mcp", handler)
	s.router.Handle("/mcp/*", handler)
}

// SubscribeControlEvents starts the single subscriber that translates
// broadcast control signals into coordinator calls. It returns when ctx is
// cancelled. The coordinator never listens to the bus itself.
func (s *Server) SubscribeControlEvents(ctx context.Context) {
	ch := s.bus.Subscribe(16)
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-ch:
			s.dispatchSignal(sig)
		}
	}
}

func (s *Server) dispatchSignal(sig timer.Signal) {
	switch sig {
	case timer.SignalSkipRest:
		s.coord.Skip()
	case timer.SignalStopRest:
		s.coord.Stop()
	case timer.SignalAddRestMinute:
		s.coord.AddMinute()
	case timer.SignalStartRest:
		s.coord.Start(s.defaultRestSec, "", "")
	case timer.SignalFinishWorkout:
		s.coord.Stop()
	case timer.SignalLogSet, timer.SignalNextExercise:
		// Session-logging concerns; nothing for the timer to do here.
		s.log.Info("control event", "signal", sig)
	}
}
