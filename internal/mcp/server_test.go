package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
	"github.com/claude/presscoach/internal/workout"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeData struct {
	workouts []models.WorkoutResult
	buckets  []string
}

func (f *fakeData) QueryWorkoutResults(_ context.Context, _, _ time.Time, name string) ([]models.WorkoutResult, error) {
	var out []models.WorkoutResult
	for _, w := range f.workouts {
		if name == "" || w.Name == name {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeData) GetWorkoutResult(_ context.Context, id uuid.UUID) (*models.WorkoutResult, error) {
	for _, w := range f.workouts {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, models.ErrWorkoutNotFound
}

func (f *fakeData) GetHistoryStats(context.Context) (*models.HistoryStats, error) {
	return &models.HistoryStats{TotalWorkouts: int64(len(f.workouts))}, nil
}

func (f *fakeData) GetTrainingSummary(_ context.Context, _, _ time.Time, bucket string) ([]models.TrainingPeriod, error) {
	f.buckets = append(f.buckets, bucket)
	return nil, nil
}

func testHandlers(ds DataSource, m *session.Manager) *handlers {
	return &handlers{ds: ds, live: ManagerSession{Manager: m}, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callTool(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestGetSessionState verifies the live snapshot is returned, and an error
// result when no session exists.
func TestGetSessionState(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := session.NewManager(nil, nil, log)
	h := testHandlers(&fakeData{}, m)

	res, err := h.getSessionState(context.Background(), callTool(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected error result without a session")
	}

	m.Configure(session.Config{Name: "Ana", Goal: workout.HMS{Minutes: 5}, WeightKg: 60, RepsPerSet: 5, TargetSets: 2})
	res, err = h.getSessionState(context.Background(), callTool(nil))
	if err != nil {
		t.Fatal(err)
	}
	var snap session.Snapshot
	if err := json.Unmarshal([]byte(resultText(t, res)), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Name != "Ana" || snap.State != session.StateReady || snap.Clock != "00:05:00" {
		t.Errorf("snapshot = %+v", snap)
	}
}

// TestGetWorkoutTool verifies lookup by ID and the error results.
func TestGetWorkoutTool(t *testing.T) {
	id := uuid.New()
	ds := &fakeData{workouts: []models.WorkoutResult{{ID: id, Name: "Ana", GoalAchieved: true}}}
	h := testHandlers(ds, nil)

	res, _ := h.getWorkout(context.Background(), callTool(map[string]any{"id": id.String()}))
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "Target Achieved. Well done Ana!") {
		t.Errorf("result = %s", text)
	}

	for _, args := range []map[string]any{nil, {"id": "nope"}, {"id": uuid.NewString()}} {
		res, _ := h.getWorkout(context.Background(), callTool(args))
		if !res.IsError {
			t.Errorf("args %v: expected error result", args)
		}
	}
}

// TestGetWorkoutsTool verifies the name filter and an empty array for no
// matches.
func TestGetWorkoutsTool(t *testing.T) {
	ds := &fakeData{workouts: []models.WorkoutResult{{Name: "Ana"}, {Name: "Ben"}}}
	h := testHandlers(ds, nil)

	res, _ := h.getWorkouts(context.Background(), callTool(map[string]any{"name": "Ben"}))
	var got []models.WorkoutResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Ben" {
		t.Errorf("workouts = %+v", got)
	}

	res, _ = h.getWorkouts(context.Background(), callTool(map[string]any{"name": "Cy"}))
	got = nil
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("no match = %v, want an empty array", got)
	}

	res, _ = h.getWorkouts(context.Background(), callTool(map[string]any{"start": "last week"}))
	if !res.IsError {
		t.Error("expected error result for bad start")
	}
}

// TestGetTrainingSummaryTool verifies the default bucket and bucket validation.
func TestGetTrainingSummaryTool(t *testing.T) {
	ds := &fakeData{}
	h := testHandlers(ds, nil)

	res, _ := h.getTrainingSummary(context.Background(), callTool(nil))
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if len(ds.buckets) != 1 || ds.buckets[0] != "1 month" {
		t.Errorf("buckets = %v, want [1 month]", ds.buckets)
	}

	res, _ = h.getTrainingSummary(context.Background(), callTool(map[string]any{"bucket": "1 day"}))
	if !res.IsError {
		t.Error("expected error result for 1 day bucket")
	}
}

// TestEstimateCalories verifies the tool applies the burn rate.
func TestEstimateCalories(t *testing.T) {
	h := testHandlers(&fakeData{}, nil)

	res, _ := h.estimateCalories(context.Background(), callTool(map[string]any{"duration": "00:10:00", "weight_kg": 70.0}))
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	var got struct {
		Calories float64 `json:"calories"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if got.Calories != 2520 {
		t.Errorf("calories = %v, want 2520", got.Calories)
	}

	res, _ = h.estimateCalories(context.Background(), callTool(map[string]any{"duration": "10 min", "weight_kg": 70.0}))
	if !res.IsError {
		t.Error("expected error result for bad duration")
	}
}

// TestSessionResource verifies the resource reports "none" without a session.
func TestSessionResource(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := testHandlers(&fakeData{}, session.NewManager(nil, nil, log))

	var req mcp.ReadResourceRequest
	req.Params.URI = "presscoach://session"
	contents, err := h.sessionResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type = %T", contents[0])
	}
	if tc.URI != "presscoach://session" || tc.Text != `{"state":"none"}` {
		t.Errorf("contents = %+v", tc)
	}
}

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 7 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 167 || diff.Hours() > 169 { // ~168 hours = 7 days
		t.Errorf("default range = %.0f hours, want ~168", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2024 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2024-01-01", start)
	}
	if end.Year() != 2024 || end.Month() != 1 || end.Day() != 31 {
		t.Errorf("end = %v, want 2024-01-31", end)
	}

	// Invalid
	_, _, err = defaultTimeRange("not-a-date", "")
	if err == nil {
		t.Error("expected error for invalid date")
	}
}
