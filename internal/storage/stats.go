package storage

import (
	"context"
	"fmt"

	"github.com/claude/presscoach/internal/models"
)

// GetHistoryStats returns aggregate statistics over all stored results.
func (db *DB) GetHistoryStats(ctx context.Context) (*models.HistoryStats, error) {
	stats := &models.HistoryStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_reps), 0),
		        COALESCE(SUM(completed_sets), 0),
		        COALESCE(SUM(calories), 0),
		        COUNT(*) FILTER (WHERE goal_achieved),
		        MIN(started_at),
		        MAX(started_at)
		 FROM workout_results`,
	).Scan(&stats.TotalWorkouts, &stats.TotalReps, &stats.TotalSets, &stats.TotalCalories,
		&stats.GoalsAchieved, &stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT name, COUNT(*), COALESCE(SUM(duration_sec), 0), COALESCE(SUM(total_reps), 0)
		 FROM workout_results
		 GROUP BY name
		 ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts by name: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.PersonStat
		if err := rows.Scan(&s.Name, &s.Count, &s.TotalDuration, &s.TotalReps); err != nil {
			return nil, fmt.Errorf("scanning workout name stat: %w", err)
		}
		stats.WorkoutsByName = append(stats.WorkoutsByName, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
