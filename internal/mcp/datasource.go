package mcp

import (
	"context"
	"time"

	"github.com/claude/presscoach/internal/history"
	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
	"github.com/claude/presscoach/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the workout history for MCP tools. *storage.DB and
// *history.Store (local) and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	QueryWorkoutResults(ctx context.Context, start, end time.Time, name string) ([]models.WorkoutResult, error)
	GetWorkoutResult(ctx context.Context, id uuid.UUID) (*models.WorkoutResult, error)
	GetHistoryStats(ctx context.Context) (*models.HistoryStats, error)
	GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]models.TrainingPeriod, error)
}

// SessionSource reports the live session. It returns session.ErrNotConfigured
// when there is none.
type SessionSource interface {
	GetSession(ctx context.Context) (*session.Snapshot, error)
}

var (
	_ DataSource    = (*storage.DB)(nil)
	_ DataSource    = (*history.Store)(nil)
	_ DataSource    = (*HTTPClient)(nil)
	_ SessionSource = (*HTTPClient)(nil)
)

// ManagerSession adapts an in-process session manager to SessionSource.
type ManagerSession struct {
	Manager *session.Manager
}

// GetSession implements SessionSource.
func (m ManagerSession) GetSession(context.Context) (*session.Snapshot, error) {
	snap, err := m.Manager.Snapshot()
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
