package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) sessionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var v any
	snap, err := h.live.GetSession(ctx)
	switch {
	case errors.Is(err, session.ErrNotConfigured):
		v = map[string]string{"state": "none"}
	case err != nil:
		return nil, err
	default:
		v = snap
	}
	return jsonContents(req.Params.URI, v)
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	workouts, err := h.ds.QueryWorkoutResults(ctx, start, end, "")
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []models.WorkoutResult{}
	}
	return jsonContents(req.Params.URI, workouts)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
