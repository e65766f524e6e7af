package models

import (
	"errors"
	"time"
)

// ErrWorkoutNotFound is returned by result stores for an unknown workout ID.
var ErrWorkoutNotFound = errors.New("workout not found")

// HistoryStats holds aggregate statistics over every stored workout result.
type HistoryStats struct {
	TotalWorkouts  int64        `json:"total_workouts"`
	TotalReps      int64        `json:"total_reps"`
	TotalSets      int64        `json:"total_sets"`
	TotalCalories  float64      `json:"total_calories"`
	GoalsAchieved  int64        `json:"goals_achieved"`
	EarliestData   *time.Time   `json:"earliest_data"`
	LatestData     *time.Time   `json:"latest_data"`
	WorkoutsByName []PersonStat `json:"workouts_by_name"`
}

// PersonStat sums the workouts recorded under one name.
type PersonStat struct {
	Name          string  `json:"name"`
	Count         int64   `json:"count"`
	TotalDuration float64 `json:"total_duration_sec"`
	TotalReps     int64   `json:"total_reps"`
}

// TrainingPeriod holds aggregated workout results for one time bucket.
type TrainingPeriod struct {
	Period        string  `json:"period"`
	Sessions      int     `json:"sessions"`
	TotalReps     int     `json:"total_reps"`
	CompletedSets int     `json:"completed_sets"`
	AvgDuration   float64 `json:"avg_duration_sec"`
	TotalCalories float64 `json:"total_calories"`
	GoalsAchieved int     `json:"goals_achieved"`
}
