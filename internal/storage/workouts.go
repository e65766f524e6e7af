package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resultColumns = `id, name, started_at, finished_at, goal, duration_sec, total_reps,
	 reps_per_set, completed_sets, target_sets, weight_kg, calories, goal_achieved`

// InsertWorkoutResult inserts a finished session. Returns true if inserted,
// false if a result with the same ID already exists.
func (db *DB) InsertWorkoutResult(ctx context.Context, r models.WorkoutResult) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_results (`+resultColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT DO NOTHING`,
		r.ID, r.Name, r.StartedAt, r.FinishedAt, r.Goal, r.DurationSec, r.TotalReps,
		r.RepsPerSet, r.CompletedSets, r.TargetSets, r.WeightKg, r.Calories, r.GoalAchieved)
	if err != nil {
		return false, fmt.Errorf("inserting workout result: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SaveWorkoutResult implements session.ResultStore.
func (db *DB) SaveWorkoutResult(ctx context.Context, r models.WorkoutResult) error {
	_, err := db.InsertWorkoutResult(ctx, r)
	return err
}

// QueryWorkoutResults retrieves results started in [start, end), newest first.
// An empty name matches every user.
func (db *DB) QueryWorkoutResults(ctx context.Context, start, end time.Time, name string) ([]models.WorkoutResult, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM workout_results
		 WHERE started_at >= $1 AND started_at < $2 AND ($3::text = '' OR name = $3)
		 ORDER BY started_at DESC`,
		start, end, name)
	if err != nil {
		return nil, fmt.Errorf("querying workout results: %w", err)
	}
	defer rows.Close()

	return scanWorkoutResults(rows)
}

// GetWorkoutResult retrieves a single result by ID.
func (db *DB) GetWorkoutResult(ctx context.Context, id uuid.UUID) (*models.WorkoutResult, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM workout_results WHERE id = $1`, id)

	var r models.WorkoutResult
	if err := scanWorkoutResult(row, &r); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("querying workout result: %w", err)
	}
	return &r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkoutResult(row scanner, r *models.WorkoutResult) error {
	return row.Scan(&r.ID, &r.Name, &r.StartedAt, &r.FinishedAt, &r.Goal, &r.DurationSec,
		&r.TotalReps, &r.RepsPerSet, &r.CompletedSets, &r.TargetSets, &r.WeightKg,
		&r.Calories, &r.GoalAchieved)
}

func scanWorkoutResults(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]models.WorkoutResult, error) {
	var result []models.WorkoutResult
	for rows.Next() {
		var r models.WorkoutResult
		if err := scanWorkoutResult(rows, &r); err != nil {
			return nil, fmt.Errorf("scanning workout result: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
