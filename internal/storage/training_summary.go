package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/presscoach/internal/models"
)

// GetTrainingSummary returns workout result totals per week or month.
func (db *DB) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]models.TrainingPeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, started_at)::date AS period,
		        COUNT(*)::int,
		        COALESCE(SUM(total_reps), 0)::int,
		        COALESCE(SUM(completed_sets), 0)::int,
		        AVG(duration_sec),
		        COALESCE(SUM(calories), 0),
		        (COUNT(*) FILTER (WHERE goal_achieved))::int
		 FROM workout_results
		 WHERE started_at >= $2 AND started_at < $3
		 GROUP BY period
		 ORDER BY period DESC`,
		truncInterval(bucket), start, end)
	if err != nil {
		return nil, fmt.Errorf("querying training summary: %w", err)
	}
	defer rows.Close()

	var result []models.TrainingPeriod
	for rows.Next() {
		var periodTime time.Time
		var p models.TrainingPeriod
		if err := rows.Scan(&periodTime, &p.Sessions, &p.TotalReps, &p.CompletedSets,
			&p.AvgDuration, &p.TotalCalories, &p.GoalsAchieved); err != nil {
			return nil, fmt.Errorf("scanning training summary: %w", err)
		}
		p.Period = periodTime.Format("2006-01-02")
		result = append(result, p)
	}
	return result, rows.Err()
}

// truncInterval converts bucket strings like "1 month" to the interval name
// that date_trunc expects (e.g. "month", "week").
func truncInterval(bucket string) string {
	switch bucket {
	case "1 week":
		return "week"
	case "1 month":
		return "month"
	default:
		return "month"
	}
}
