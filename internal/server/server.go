package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/presscoach/internal/config"
	"github.com/claude/presscoach/internal/history"
	"github.com/claude/presscoach/internal/ingest/landmarks"
	"github.com/claude/presscoach/internal/live"
	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
	"github.com/claude/presscoach/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the workout history the API reads from.
type Store interface {
	QueryWorkoutResults(ctx context.Context, start, end time.Time, name string) ([]models.WorkoutResult, error)
	GetWorkoutResult(ctx context.Context, id uuid.UUID) (*models.WorkoutResult, error)
	GetHistoryStats(ctx context.Context) (*models.HistoryStats, error)
	GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]models.TrainingPeriod, error)
}

var (
	_ Store = (*storage.DB)(nil)
	_ Store = (*history.Store)(nil)
)

// Options configures a Server.
type Options struct {
	APIKey string
	// Session supplies defaults for session configuration requests.
	Session config.SessionConfig
	// MCP, when set, is served at /mcp.
	MCP http.Handler
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   Store
	manager *session.Manager
	hub     *live.Hub
	frames  *landmarks.Provider
	opts    Options
	log     *slog.Logger
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, manager *session.Manager, hub *live.Hub, frames *landmarks.Provider, opts Options, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		manager: manager,
		hub:     hub,
		frames:  frames,
		opts:    opts,
		log:     log,
		router:  chi.NewRouter(),
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

	// Frame ingest from the pose estimator (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.opts.APIKey))
		r.Post("/frames", s.handleIngestFrames)
	})

	// Session control and display (no auth — tsnet handles access)
	s.router.Route("/api/v1/session", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/", s.handleConfigureSession)
		r.Post("/start", s.handleSessionOp(s.manager.Start))
		r.Post("/pause", s.handleSessionOp(s.manager.Pause))
		r.Post("/resume", s.handleSessionOp(s.manager.Resume))
		r.Post("/reset", s.handleSessionOp(s.manager.Reset))
		r.Post("/finish", s.handleFinishSession)
		r.Get("/ws", s.handleSessionStream)
	})

	// Workout history
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/stats", s.handleHistoryStats)
	s.router.Get("/api/v1/workouts/summary", s.handleTrainingSummary)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)

	if s.opts.MCP != nil {
		s.router.Handle("/mcp", s.opts.MCP)
	}
}
