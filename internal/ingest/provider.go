package ingest

import "github.com/claude/presscoach/internal/session"

// Result holds the outcome of an ingest operation.
type Result struct {
	FramesReceived int `json:"frames_received"`
	FramesApplied  int `json:"frames_applied"`
	// FramesSkipped lacked a required joint; the session kept its previous
	// classification for them.
	FramesSkipped int `json:"frames_skipped"`
	// FramesRejected could not be turned into a frame at all.
	FramesRejected int `json:"frames_rejected"`

	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Message  string            `json:"message,omitempty"`
}
