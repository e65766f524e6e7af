package server

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/claude/presscoach/internal/ingest/landmarks"
	"github.com/claude/presscoach/internal/session"
)

// maxFrameBody bounds one ingest request; a batch of a few hundred
// 33-point frames fits.
const maxFrameBody = 4 << 20

func (s *Server) handleIngestFrames(w http.ResponseWriter, r *http.Request) {
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
			return
		}
		mediaType = mt
	}
	format, err := landmarks.ParseFormat(mediaType)
	if err != nil {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": err.Error()})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFrameBody))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		return
	}

	payloads, err := landmarks.Decode(body, format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.frames.Ingest(r.Context(), payloads)
	if err != nil {
		if errors.Is(err, session.ErrNotConfigured) || errors.Is(err, session.ErrSessionFinished) {
			writeSessionError(w, err)
			return
		}
		s.log.Error("frame ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
