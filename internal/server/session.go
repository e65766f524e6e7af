package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/claude/presscoach/internal/session"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.manager.Snapshot()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleConfigureSession(w http.ResponseWriter, r *http.Request) {
	var in session.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	cfg, err := s.opts.Session.Apply(in).Parse()
	if err != nil {
		var cerr *session.ConfigurationError
		if errors.As(err, &cerr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": cerr.Error(), "field": cerr.Field})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, s.manager.Configure(cfg))
}

// handleSessionOp serves a lifecycle control that returns a snapshot.
func (s *Server) handleSessionOp(op func() (session.Snapshot, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := op()
		if err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.manager.Finish()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"workout": result,
		"summary": result.Summary(),
	})
}

// writeSessionError maps session errors to status codes: no session is 404,
// a refused transition is 409.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotConfigured):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrNotStarted),
		errors.Is(err, session.ErrAlreadyStarted),
		errors.Is(err, session.ErrSessionFinished):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
