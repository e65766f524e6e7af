package replay

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/claude/presscoach/internal/ingest"
	"github.com/claude/presscoach/internal/ingest/landmarks"
	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/pose"
	"github.com/claude/presscoach/internal/session"
	"github.com/claude/presscoach/internal/workout"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func unit(deg float64) pose.Point {
	rad := deg * math.Pi / 180
	return pose.Point{X: math.Cos(rad), Y: math.Sin(rad)}
}

func add(a, b pose.Point) pose.Point {
	return pose.Point{X: a.X + b.X, Y: a.Y + b.Y}
}

// joints lays out a frame whose shoulders and elbows measure the given angles.
func joints(shoulder, elbow float64) map[string]pose.Point {
	ls := pose.Point{}
	le := add(ls, unit(90-shoulder))
	rs := pose.Point{X: 10}
	re := add(rs, unit(90+shoulder))
	return map[string]pose.Point{
		string(pose.LeftShoulder): ls, string(pose.LeftHip): add(ls, unit(90)),
		string(pose.LeftElbow): le, string(pose.LeftWrist): add(le, unit(270-shoulder+elbow)),
		string(pose.RightShoulder): rs, string(pose.RightHip): add(rs, unit(90)),
		string(pose.RightElbow): re, string(pose.RightWrist): add(re, unit(270+shoulder-elbow)),
	}
}

// recording renders frames as newline-delimited JSON.
func recording(t *testing.T, frames ...models.FramePayload) string {
	t.Helper()
	var b strings.Builder
	for _, f := range frames {
		data, err := json.Marshal(f)
		if err != nil {
			t.Fatal(err)
		}
		b.Write(data)
		b.WriteString("\n")
	}
	return b.String()
}

func rack(ts int64) models.FramePayload  { return models.FramePayload{Timestamp: ts, Joints: joints(95, 80)} }
func press(ts int64) models.FramePayload { return models.FramePayload{Timestamp: ts, Joints: joints(150, 120)} }

// TestReplayLocalSession verifies frames and timestamp-driven clock ticks reach
// an in-process session.
func TestReplayLocalSession(t *testing.T) {
	log := testLogger()
	m := session.NewManager(nil, nil, log)
	m.Configure(session.Config{Name: "Ana", Goal: workout.HMS{Minutes: 5}, WeightKg: 60, RepsPerSet: 1, TargetSets: 3})
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}

	input := recording(t, rack(1000), press(1500), rack(2100), press(3200))
	input += "\n" // blank lines are ignored

	rp := New(landmarks.NewProvider(m, log), Options{Clock: m}, log)
	stats, err := rp.Run(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Frames != 4 || stats.Applied != 4 || stats.Batches != 4 {
		t.Errorf("stats = %+v, want 4 frames applied one per batch", stats)
	}
	if stats.Ticks != 2 {
		t.Errorf("ticks = %d, want 2", stats.Ticks)
	}

	snap, err := m.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Sets != "1/3" || snap.RepCount != 0 {
		t.Errorf("sets = %s, reps = %v; want 1/3 with the count restarted", snap.Sets, snap.RepCount)
	}
	if snap.Clock != "00:04:58" {
		t.Errorf("clock = %s, want 00:04:58", snap.Clock)
	}
	if stats.Last == nil || stats.Last.Sets != "1/3" {
		t.Errorf("last snapshot = %+v", stats.Last)
	}
}

type recordingSink struct {
	sizes []int
}

func (s *recordingSink) Ingest(_ context.Context, payloads []models.FramePayload) (*ingest.Result, error) {
	s.sizes = append(s.sizes, len(payloads))
	return &ingest.Result{FramesReceived: len(payloads), FramesApplied: len(payloads)}, nil
}

// TestReplayBatches verifies frames are grouped and the tail batch is sent.
func TestReplayBatches(t *testing.T) {
	sink := &recordingSink{}
	var seen int
	rp := New(sink, Options{BatchSize: 2, OnBatch: func(*ingest.Result) { seen++ }}, testLogger())

	input := recording(t, rack(0), press(0), rack(0), press(0), rack(0))
	stats, err := rp.Run(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.sizes) != 3 || sink.sizes[0] != 2 || sink.sizes[2] != 1 {
		t.Errorf("batch sizes = %v, want [2 2 1]", sink.sizes)
	}
	if stats.Applied != 5 || seen != 3 {
		t.Errorf("applied = %d, callbacks = %d", stats.Applied, seen)
	}
}

// TestReplayBadLine verifies a malformed line stops the replay and names the line.
func TestReplayBadLine(t *testing.T) {
	rp := New(&recordingSink{}, Options{}, testLogger())
	input := recording(t, rack(0)) + "{not json\n"
	stats, err := rp.Run(context.Background(), strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want line 2 error", err)
	}
	if stats.Batches != 1 {
		t.Errorf("batches = %d, want the first frame sent", stats.Batches)
	}
}

// TestReplayStopsOnGoal verifies the replay ends once the session finishes on
// reaching its set goal.
func TestReplayStopsOnGoal(t *testing.T) {
	log := testLogger()
	m := session.NewManager(nil, nil, log)
	m.Configure(session.Config{Name: "Ana", Goal: workout.HMS{Minutes: 1}, WeightKg: 60, RepsPerSet: 1, TargetSets: 1, FinishOnGoal: true})
	if _, err := m.Start(); err != nil {
		t.Fatal(err)
	}

	input := recording(t, rack(0), press(0), rack(0), press(0), rack(0), press(0))
	stats, err := New(landmarks.NewProvider(m, log), Options{}, log).Run(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if !stats.Finished || stats.Frames != 4 {
		t.Errorf("stats = %+v, want finished after 4 frames", stats)
	}

	s, err := m.Current()
	if err != nil {
		t.Fatal(err)
	}
	r, ok := s.Result()
	if !ok || !r.GoalAchieved || r.TotalReps != 1 {
		t.Errorf("result = %+v, %v; want goal achieved with 1 rep", r, ok)
	}
}
