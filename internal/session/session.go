// Package session composes the pose classifier and the workout counters into
// a single training session driven by frame and clock ticks.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/pose"
	"github.com/claude/presscoach/internal/workout"
	"github.com/google/uuid"
)

var (
	ErrNotConfigured   = errors.New("no session configured")
	ErrNotStarted      = errors.New("session not started")
	ErrAlreadyStarted  = errors.New("session already started")
	ErrSessionFinished = errors.New("session finished")
)

// State is the lifecycle position of a session.
type State string

const (
	StateReady    State = "ready"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
)

// Snapshot is what a display needs after any tick.
type Snapshot struct {
	SessionID         uuid.UUID           `json:"session_id"`
	Name              string              `json:"name"`
	State             State               `json:"state"`
	Label             pose.Label          `json:"label"`
	ProgressPrimary   pose.Progress       `json:"progress_primary"`
	ProgressSecondary pose.Progress       `json:"progress_secondary"`
	RepCount          float64             `json:"rep_count"`
	Clock             string              `json:"clock"`
	ClockMode         workout.ClockMode   `json:"clock_mode"`
	Elapsed           string              `json:"elapsed"`
	Sets              string              `json:"sets"`
	SetProgress       workout.SetProgress `json:"set_progress"`
	Calories          float64             `json:"calories"`
	SkippedFrames     int                 `json:"skipped_frames"`
}

// FinishHandler receives the result of a session once it finishes.
type FinishHandler func(result models.WorkoutResult)

// Session owns every piece of mutable workout state. Frame ticks and clock
// ticks may arrive on different goroutines; all mutation happens under mu.
type Session struct {
	mu        sync.Mutex
	id        uuid.UUID
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
	onFinish  FinishHandler
	state     State
	last      pose.Classification
	reps      workout.RepCounter
	sets      *workout.SetTracker
	clock     *workout.Clock
	startedAt time.Time
	skipped   int
	result    *models.WorkoutResult
}

// New creates a session in the ready state. Counting stays off and the clock
// stays still until Start.
func New(cfg Config, log *slog.Logger) *Session {
	return &Session{
		id:    uuid.New(),
		cfg:   cfg,
		log:   log,
		now:   time.Now,
		state: StateReady,
		last:  pose.Classification{Label: pose.Wrong},
		sets:  workout.NewSetTracker(cfg.RepsPerSet, cfg.TargetSets),
		clock: workout.NewClock(cfg.Goal),
	}
}

// ID returns the session identifier, reused as the workout result ID.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// SetFinishHandler sets the callback run when the session finishes, whether
// through Finish or because the set goal was reached.
func (s *Session) SetFinishHandler(h FinishHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = h
}

// IngestFrame runs one frame tick: classify, count, track sets. A frame
// missing required joints is skipped and the previous classification kept;
// the returned error then wraps pose.ErrLandmarkMissing.
func (s *Session) IngestFrame(f pose.Frame) (Snapshot, error) {
	s.mu.Lock()
	if s.state == StateFinished {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrSessionFinished
	}

	angles, err := pose.MeasureAngles(f)
	if err != nil {
		s.skipped++
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.log.Debug("frame skipped", "session", s.id, "error", err)
		return snap, fmt.Errorf("ingesting frame: %w", err)
	}

	s.last = pose.Classify(angles, s.last)
	s.reps.Observe(s.last.PhaseA, s.last.PhaseB)
	result := s.trackSetsLocked()
	snap := s.snapshotLocked()
	handler := s.onFinish
	s.mu.Unlock()

	s.notify(handler, result)
	return snap, nil
}

// Tick runs one clock tick. The clock only advances while running; a paused
// or not yet started session returns a fresh snapshot without changes.
func (s *Session) Tick() (Snapshot, error) {
	s.mu.Lock()
	if s.state == StateFinished {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, ErrSessionFinished
	}

	result := s.trackSetsLocked()
	if result == nil && s.state == StateRunning {
		before := s.clock.Mode()
		s.clock.Tick()
		if before == workout.Countdown && s.clock.Mode() == workout.Overtime {
			s.log.Info("goal duration reached, counting overtime", "session", s.id)
		}
	}
	snap := s.snapshotLocked()
	handler := s.onFinish
	s.mu.Unlock()

	s.notify(handler, result)
	return snap, nil
}

// Start begins the clock and enables counting.
func (s *Session) Start() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFinished:
		return s.snapshotLocked(), ErrSessionFinished
	case StateRunning, StatePaused:
		return s.snapshotLocked(), ErrAlreadyStarted
	}
	s.state = StateRunning
	s.startedAt = s.now()
	s.reps.SetEnabled(true)
	s.log.Info("session started", "session", s.id, "name", s.cfg.Name, "goal", s.cfg.Goal.String())
	return s.snapshotLocked(), nil
}

// Pause disables counting and freezes the clock. Classification continues.
func (s *Session) Pause() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFinished:
		return s.snapshotLocked(), ErrSessionFinished
	case StateReady:
		return s.snapshotLocked(), ErrNotStarted
	}
	s.state = StatePaused
	s.reps.SetEnabled(false)
	return s.snapshotLocked(), nil
}

// Resume re-enables counting and the clock.
func (s *Session) Resume() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateFinished:
		return s.snapshotLocked(), ErrSessionFinished
	case StateReady:
		return s.snapshotLocked(), ErrNotStarted
	}
	s.state = StateRunning
	s.reps.SetEnabled(true)
	return s.snapshotLocked(), nil
}

// Reset zeroes reps, latches, sets and the clock without ending the session.
// Running or paused stays as it was, and an achieved goal is kept.
func (s *Session) Reset() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished {
		return s.snapshotLocked(), ErrSessionFinished
	}
	s.reps.Clear()
	s.sets.Reset()
	s.clock.Reset()
	s.log.Info("session reset", "session", s.id)
	return s.snapshotLocked(), nil
}

// Finish ends the session and returns its result. Finishing twice returns the
// first result together with ErrSessionFinished.
func (s *Session) Finish() (models.WorkoutResult, error) {
	s.mu.Lock()
	if s.state == StateFinished {
		r := *s.result
		s.mu.Unlock()
		return r, ErrSessionFinished
	}
	s.sets.Update(s.reps.Whole())
	r := s.finishLocked()
	handler := s.onFinish
	s.mu.Unlock()

	s.notify(handler, r)
	return *r, nil
}

// Result returns the workout result once the session has finished.
func (s *Session) Result() (models.WorkoutResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return models.WorkoutResult{}, false
	}
	return *s.result, true
}

// Snapshot returns the current view without ticking.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// trackSetsLocked feeds the whole-rep count to the set tracker, restarts the
// rep count on a set boundary, and finishes the session when the goal is met
// and FinishOnGoal is set. It returns the result if the session finished.
// Must be called with s.mu held.
func (s *Session) trackSetsLocked() *models.WorkoutResult {
	achievedBefore := s.sets.Progress().GoalAchieved
	if s.sets.Update(s.reps.Whole()) {
		s.reps.Clear()
		p := s.sets.Progress()
		s.log.Info("set completed", "session", s.id, "sets", p.String())
	}
	p := s.sets.Progress()
	if !p.GoalAchieved || achievedBefore {
		return nil
	}
	s.log.Info("set goal achieved", "session", s.id, "sets", p.String())
	if !s.cfg.FinishOnGoal {
		return nil
	}
	return s.finishLocked()
}

// finishLocked captures the result and moves to the finished state.
// Must be called with s.mu held.
func (s *Session) finishLocked() *models.WorkoutResult {
	now := s.now()
	started := s.startedAt
	if started.IsZero() {
		started = now
	}
	elapsed := s.clock.Elapsed()
	p := s.sets.Progress()

	s.result = &models.WorkoutResult{
		ID:            s.id,
		Name:          s.cfg.Name,
		StartedAt:     started,
		FinishedAt:    now,
		Goal:          s.cfg.Goal.String(),
		DurationSec:   elapsed.Seconds(),
		TotalReps:     p.TotalReps(),
		RepsPerSet:    p.RepsPerSet,
		CompletedSets: p.CompletedSets,
		TargetSets:    p.TargetSets,
		WeightKg:      s.cfg.WeightKg,
		Calories:      workout.CaloriesFor(elapsed, s.cfg.WeightKg),
		GoalAchieved:  p.GoalAchieved,
	}
	s.state = StateFinished
	s.reps.SetEnabled(false)
	s.log.Info("session finished", "session", s.id,
		"duration", elapsed.String(),
		"total_reps", s.result.TotalReps,
		"calories", s.result.Calories,
		"goal_achieved", s.result.GoalAchieved,
	)
	return s.result
}

// snapshotLocked builds the display view. Must be called with s.mu held.
func (s *Session) snapshotLocked() Snapshot {
	cs := s.clock.State()
	p := s.sets.Progress()
	return Snapshot{
		SessionID:         s.id,
		Name:              s.cfg.Name,
		State:             s.state,
		Label:             s.last.Label,
		ProgressPrimary:   s.last.Primary,
		ProgressSecondary: s.last.Secondary,
		RepCount:          s.reps.Count(),
		Clock:             cs.Display,
		ClockMode:         cs.Mode,
		Elapsed:           cs.Elapsed,
		Sets:              p.String(),
		SetProgress:       p,
		Calories:          workout.CaloriesFor(s.clock.Elapsed(), s.cfg.WeightKg),
		SkippedFrames:     s.skipped,
	}
}

// notify runs the finish handler outside the lock.
func (s *Session) notify(h FinishHandler, result *models.WorkoutResult) {
	if h == nil || result == nil {
		return
	}
	h(*result)
}
