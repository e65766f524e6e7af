// Package mcp exposes the live session and the workout history to MCP
// clients.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, live SessionSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PressCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PressCoach shoulder-press coach. Read the live session (posture label, rep count, sets, clock, calories) and query finished workout results."),
	)

	h := &handlers{ds: ds, live: live, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSessionState, Handler: h.getSessionState},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetHistoryStats, Handler: h.getHistoryStats},
		server.ServerTool{Tool: toolGetTrainingSummary, Handler: h.getTrainingSummary},
		server.ServerTool{Tool: toolEstimateCalories, Handler: h.estimateCalories},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resSession, Handler: h.sessionResource},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds   DataSource
	live SessionSource
	log  *slog.Logger
}

// --- Resource definitions ---

var resSession = mcp.NewResource(
	"presscoach://session",
	"Live Session",
	mcp.WithResourceDescription("Current session snapshot: posture label, progress, rep count, sets, clock and calories"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"presscoach://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workout results from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
