package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
	"github.com/claude/presscoach/internal/workout"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetSessionState = mcp.NewTool("get_session_state",
	mcp.WithDescription("Get the live session: state, posture label (CORRECT/WRONG), primary and secondary progress, rep count, sets (completed/target), clock in countdown or overtime, and calories burned so far."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query finished workout results with an optional name filter. Returns duration, reps, sets, calories and whether the set goal was achieved."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("name", mcp.Description("Only workouts recorded under this name (exact match)")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout result by ID, with its one-line verdict."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout ID (UUID)")),
)

var toolGetHistoryStats = mcp.NewTool("get_history_stats",
	mcp.WithDescription("Totals over every stored workout: workouts, reps, sets, calories, goals achieved, and per-name counts."),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Weekly or monthly aggregated workout results: sessions, reps, completed sets, average duration, calories and goals achieved per period."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 6 months ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to '1 month'."), mcp.Enum("1 week", "1 month")),
)

var toolEstimateCalories = mcp.NewTool("estimate_calories",
	mcp.WithDescription("Estimate calories burned by shoulder pressing for a duration at a body weight."),
	mcp.WithString("duration", mcp.Required(), mcp.Description("Duration as HH:MM:SS")),
	mcp.WithNumber("weight_kg", mcp.Required(), mcp.Description("Body weight in kilograms")),
)

// --- Tool handlers ---

func (h *handlers) getSessionState(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := h.live.GetSession(ctx)
	if errors.Is(err, session.ErrNotConfigured) {
		return mcp.NewToolResultError("no session configured"), nil
	}
	if err != nil {
		h.log.Error("mcp get_session_state", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(snap)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	name := req.GetString("name", "")

	workouts, err := h.ds.QueryWorkoutResults(ctx, start, end, name)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if workouts == nil {
		workouts = []models.WorkoutResult{}
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout ID: " + err.Error()), nil
	}

	w, err := h.ds.GetWorkoutResult(ctx, id)
	if errors.Is(err, models.ErrWorkoutNotFound) {
		return mcp.NewToolResultError("workout not found"), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout": w,
		"summary": w.Summary(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistoryStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetHistoryStats(ctx)
	if err != nil {
		h.log.Error("mcp get_history_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	endStr := req.GetString("end", "")
	startStr := req.GetString("start", "")

	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
		}
	} else {
		start = end.AddDate(0, -6, 0)
	}

	bucket := req.GetString("bucket", "1 month")
	if bucket != "1 week" && bucket != "1 month" {
		return mcp.NewToolResultError("bucket must be '1 week' or '1 month'"), nil
	}

	summary, err := h.ds.GetTrainingSummary(ctx, start, end, bucket)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if summary == nil {
		summary = []models.TrainingPeriod{}
	}

	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) estimateCalories(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	durStr, err := req.RequireString("duration")
	if err != nil {
		return mcp.NewToolResultError("duration parameter is required"), nil
	}
	weight, err := req.RequireFloat("weight_kg")
	if err != nil {
		return mcp.NewToolResultError("weight_kg parameter is required"), nil
	}
	if weight <= 0 {
		return mcp.NewToolResultError("weight_kg must be positive"), nil
	}
	dur, err := workout.ParseHMS(durStr)
	if err != nil {
		return mcp.NewToolResultError("invalid duration: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"duration":  dur.String(),
		"weight_kg": weight,
		"calories":  workout.CaloriesFor(dur.Duration(), weight),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
