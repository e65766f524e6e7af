package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/pose"
)

// ResultStore persists finished workouts.
type ResultStore interface {
	SaveWorkoutResult(ctx context.Context, r models.WorkoutResult) error
}

// Publisher receives every snapshot the manager produces.
type Publisher interface {
	Publish(Snapshot)
}

const saveTimeout = 10 * time.Second

// Manager holds the current session and routes ticks and controls to it.
// Configuring a new session replaces the current one.
type Manager struct {
	mu      sync.RWMutex
	current *Session
	store   ResultStore
	pub     Publisher
	log     *slog.Logger
}

// NewManager creates a Manager. store and pub may be nil.
func NewManager(store ResultStore, pub Publisher, log *slog.Logger) *Manager {
	return &Manager{store: store, pub: pub, log: log}
}

// Configure starts over with a fresh session in the ready state. A previous
// session that was started but not finished is finished first, so its result
// is kept.
func (m *Manager) Configure(cfg Config) Snapshot {
	m.mu.Lock()
	prev := m.current
	s := New(cfg, m.log)
	s.SetFinishHandler(m.save)
	m.current = s
	m.mu.Unlock()

	if prev != nil {
		if st := prev.Snapshot().State; st == StateRunning || st == StatePaused {
			if _, err := prev.Finish(); err != nil {
				m.log.Warn("finishing replaced session", "session", prev.ID(), "error", err)
			}
		}
	}

	m.log.Info("session configured", "session", s.ID(), "name", cfg.Name,
		"goal", cfg.Goal.String(), "reps_per_set", cfg.RepsPerSet, "target_sets", cfg.TargetSets)
	return m.publish(s.Snapshot(), nil)
}

// Current returns the configured session.
func (m *Manager) Current() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil, ErrNotConfigured
	}
	return m.current, nil
}

// Snapshot returns the current session's view.
func (m *Manager) Snapshot() (Snapshot, error) {
	s, err := m.Current()
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// IngestFrame forwards a frame tick to the current session.
func (m *Manager) IngestFrame(f pose.Frame) (Snapshot, error) {
	return m.apply(func(s *Session) (Snapshot, error) { return s.IngestFrame(f) })
}

// Tick forwards a clock tick to the current session.
func (m *Manager) Tick() (Snapshot, error) {
	return m.apply((*Session).Tick)
}

func (m *Manager) Start() (Snapshot, error)  { return m.apply((*Session).Start) }
func (m *Manager) Pause() (Snapshot, error)  { return m.apply((*Session).Pause) }
func (m *Manager) Resume() (Snapshot, error) { return m.apply((*Session).Resume) }
func (m *Manager) Reset() (Snapshot, error)  { return m.apply((*Session).Reset) }

// Finish ends the current session and returns its result.
func (m *Manager) Finish() (models.WorkoutResult, error) {
	s, err := m.Current()
	if err != nil {
		return models.WorkoutResult{}, err
	}
	r, err := s.Finish()
	m.publish(s.Snapshot(), err)
	return r, err
}

func (m *Manager) apply(op func(*Session) (Snapshot, error)) (Snapshot, error) {
	s, err := m.Current()
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := op(s)
	return m.publish(snap, err), err
}

// publish forwards snapshots of applied ticks; refused operations change
// nothing worth redrawing.
func (m *Manager) publish(snap Snapshot, err error) Snapshot {
	if m.pub != nil && err == nil {
		m.pub.Publish(snap)
	}
	return snap
}

// save persists a finished session. It runs on the goroutine that finished
// the session, after the session lock is released.
func (m *Manager) save(r models.WorkoutResult) {
	m.log.Info("workout result", "id", r.ID, "summary", r.Summary())
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.store.SaveWorkoutResult(ctx, r); err != nil {
		m.log.Error("saving workout result", "id", r.ID, "error", err)
	}
}
