package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/claude/presscoach/internal/models"
)

// GetHistoryStats returns aggregate statistics over all stored results.
func (s *Store) GetHistoryStats(ctx context.Context) (*models.HistoryStats, error) {
	stats := &models.HistoryStats{}

	var earliest, latest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(total_reps), 0),
		        COALESCE(SUM(completed_sets), 0),
		        COALESCE(SUM(calories), 0),
		        COALESCE(SUM(goal_achieved), 0),
		        MIN(started_at),
		        MAX(started_at)
		 FROM workout_results`,
	).Scan(&stats.TotalWorkouts, &stats.TotalReps, &stats.TotalSets, &stats.TotalCalories,
		&stats.GoalsAchieved, &earliest, &latest)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}
	if stats.EarliestData, err = parseNullTime(earliest); err != nil {
		return nil, err
	}
	if stats.LatestData, err = parseNullTime(latest); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, COUNT(*), COALESCE(SUM(duration_sec), 0), COALESCE(SUM(total_reps), 0)
		 FROM workout_results
		 GROUP BY name
		 ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts by name: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.PersonStat
		if err := rows.Scan(&p.Name, &p.Count, &p.TotalDuration, &p.TotalReps); err != nil {
			return nil, fmt.Errorf("scanning workout name stat: %w", err)
		}
		stats.WorkoutsByName = append(stats.WorkoutsByName, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetTrainingSummary returns workout result totals per week (starting Monday)
// or month.
func (s *Store) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]models.TrainingPeriod, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+periodExpr(bucket)+` AS period,
		        COUNT(*),
		        COALESCE(SUM(total_reps), 0),
		        COALESCE(SUM(completed_sets), 0),
		        AVG(duration_sec),
		        COALESCE(SUM(calories), 0),
		        COALESCE(SUM(goal_achieved), 0)
		 FROM workout_results
		 WHERE started_at >= ? AND started_at < ?
		 GROUP BY period
		 ORDER BY period DESC`,
		formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingPeriod
	for rows.Next() {
		var p models.TrainingPeriod
		if err := rows.Scan(&p.Period, &p.Sessions, &p.TotalReps, &p.CompletedSets,
			&p.AvgDuration, &p.TotalCalories, &p.GoalsAchieved); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// periodExpr truncates started_at to the first day of its bucket.
func periodExpr(bucket string) string {
	if bucket == "1 week" {
		// Back six days, then forward to the next Monday.
		return `date(started_at, '-6 days', 'weekday 1')`
	}
	return `strftime('%Y-%m-01', started_at)`
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp %q: %w", s.String, err)
	}
	return &t, nil
}
