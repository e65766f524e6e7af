package models

import (
	"testing"
	"time"
)

// TestWorkoutSummary verifies the verdict line for both outcomes.
func TestWorkoutSummary(t *testing.T) {
	tests := []struct {
		achieved bool
		want     string
	}{
		{true, "Target Achieved. Well done Sam!"},
		{false, "Target not Achieved. Try again Sam, you can do it."},
	}
	for _, tt := range tests {
		r := WorkoutResult{Name: "Sam", GoalAchieved: tt.achieved}
		if got := r.Summary(); got != tt.want {
			t.Errorf("Summary(achieved=%v) = %q, want %q", tt.achieved, got, tt.want)
		}
	}
}

// TestWorkoutDuration verifies fractional seconds survive the conversion.
func TestWorkoutDuration(t *testing.T) {
	r := WorkoutResult{DurationSec: 90.5}
	if got := r.Duration(); got != 90*time.Second+500*time.Millisecond {
		t.Errorf("Duration = %v, want 1m30.5s", got)
	}
}
