package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkoutResult is the summary captured when a session finishes, ready for
// insertion into the workout_results table.
type WorkoutResult struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Goal          string    `json:"goal"`
	DurationSec   float64   `json:"duration_sec"`
	TotalReps     int       `json:"total_reps"`
	RepsPerSet    int       `json:"reps_per_set"`
	CompletedSets int       `json:"completed_sets"`
	TargetSets    int       `json:"target_sets"`
	WeightKg      float64   `json:"weight_kg"`
	Calories      float64   `json:"calories"`
	GoalAchieved  bool      `json:"goal_achieved"`
}

// Duration returns the worked duration.
func (r WorkoutResult) Duration() time.Duration {
	return time.Duration(r.DurationSec * float64(time.Second))
}

// Summary is the one-line verdict shown on the results screen.
func (r WorkoutResult) Summary() string {
	if r.GoalAchieved {
		return fmt.Sprintf("Target Achieved. Well done %s!", r.Name)
	}
	return fmt.Sprintf("Target not Achieved. Try again %s, you can do it.", r.Name)
}
