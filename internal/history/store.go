// Package history keeps finished workout results in a local SQLite file, for
// single-machine setups without PostgreSQL.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is a SQLite-backed workout result repository.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at dir/history.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	// SQLite allows one writer; serialise through a single connection.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workout_results (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL DEFAULT '',
		started_at     TEXT NOT NULL,
		finished_at    TEXT NOT NULL,
		goal           TEXT NOT NULL,
		duration_sec   REAL NOT NULL,
		total_reps     INTEGER NOT NULL,
		reps_per_set   INTEGER NOT NULL,
		completed_sets INTEGER NOT NULL,
		target_sets    INTEGER NOT NULL,
		weight_kg      REAL NOT NULL,
		calories       REAL NOT NULL,
		goal_achieved  INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the history database.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// InsertWorkoutResult stores a finished session. Returns true if inserted,
// false if a result with the same ID already exists.
func (s *Store) InsertWorkoutResult(ctx context.Context, r models.WorkoutResult) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO workout_results (id, name, started_at, finished_at, goal,
		 duration_sec, total_reps, reps_per_set, completed_sets, target_sets, weight_kg,
		 calories, goal_achieved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Name, formatTime(r.StartedAt), formatTime(r.FinishedAt), r.Goal,
		r.DurationSec, r.TotalReps, r.RepsPerSet, r.CompletedSets, r.TargetSets, r.WeightKg,
		r.Calories, r.GoalAchieved,
	)
	if err != nil {
		return false, fmt.Errorf("inserting workout result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveWorkoutResult implements session.ResultStore.
func (s *Store) SaveWorkoutResult(ctx context.Context, r models.WorkoutResult) error {
	_, err := s.InsertWorkoutResult(ctx, r)
	return err
}

const selectResults = `SELECT id, name, started_at, finished_at, goal, duration_sec,
	total_reps, reps_per_set, completed_sets, target_sets, weight_kg, calories, goal_achieved
	FROM workout_results`

// QueryWorkoutResults retrieves results started in [start, end), newest first.
// An empty name matches every user.
func (s *Store) QueryWorkoutResults(ctx context.Context, start, end time.Time, name string) ([]models.WorkoutResult, error) {
	rows, err := s.db.QueryContext(ctx,
		selectResults+` WHERE started_at >= ? AND started_at < ? AND (? = '' OR name = ?)
		ORDER BY started_at DESC`,
		formatTime(start), formatTime(end), name, name,
	)
	if err != nil {
		return nil, fmt.Errorf("querying workout results: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// GetWorkoutResult retrieves a single result by ID.
func (s *Store) GetWorkoutResult(ctx context.Context, id uuid.UUID) (*models.WorkoutResult, error) {
	row := s.db.QueryRowContext(ctx, selectResults+` WHERE id = ?`, id.String())
	r, err := scanResult(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrWorkoutNotFound
		}
		return nil, err
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (models.WorkoutResult, error) {
	var (
		r                 models.WorkoutResult
		id                string
		started, finished string
	)
	err := row.Scan(&id, &r.Name, &started, &finished, &r.Goal, &r.DurationSec,
		&r.TotalReps, &r.RepsPerSet, &r.CompletedSets, &r.TargetSets, &r.WeightKg,
		&r.Calories, &r.GoalAchieved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return r, err
		}
		return r, fmt.Errorf("scanning workout result: %w", err)
	}
	if r.ID, err = uuid.Parse(id); err != nil {
		return r, fmt.Errorf("parsing workout id %q: %w", id, err)
	}
	if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return r, fmt.Errorf("parsing started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return r, fmt.Errorf("parsing finished_at: %w", err)
	}
	return r, nil
}
