package session

import (
	"errors"
	"testing"

	"github.com/claude/presscoach/internal/workout"
)

// TestInputParse verifies a complete form parses and FinishOnGoal defaults on.
func TestInputParse(t *testing.T) {
	cfg, err := Input{Name: "  Ana ", Goal: "00:20:00", WeightKg: 62.5, RepsPerSet: 10, TargetSets: 3}.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "Ana" {
		t.Errorf("name = %q, want trimmed Ana", cfg.Name)
	}
	if cfg.Goal != (workout.HMS{Minutes: 20}) {
		t.Errorf("goal = %s, want 00:20:00", cfg.Goal)
	}
	if !cfg.FinishOnGoal {
		t.Error("finish on goal = false, want default true")
	}

	off := false
	cfg, err = Input{Goal: "00:00:00", WeightKg: 80, RepsPerSet: 5, TargetSets: 1, FinishOnGoal: &off}.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FinishOnGoal {
		t.Error("finish on goal = true, want explicit false")
	}
	if cfg.Name != "" {
		t.Errorf("name = %q, want empty", cfg.Name)
	}
}

// TestInputParseErrors verifies each rejected field is named in a
// ConfigurationError.
func TestInputParseErrors(t *testing.T) {
	valid := Input{Goal: "00:10:00", WeightKg: 70, RepsPerSet: 10, TargetSets: 3}
	tests := []struct {
		name  string
		edit  func(*Input)
		field string
	}{
		{"bad goal", func(in *Input) { in.Goal = "ten minutes" }, "goal"},
		{"missing goal part", func(in *Input) { in.Goal = "10:00" }, "goal"},
		{"zero weight", func(in *Input) { in.WeightKg = 0 }, "weight_kg"},
		{"negative weight", func(in *Input) { in.WeightKg = -3 }, "weight_kg"},
		{"zero reps", func(in *Input) { in.RepsPerSet = 0 }, "reps_per_set"},
		{"zero sets", func(in *Input) { in.TargetSets = 0 }, "target_sets"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := in.Parse()
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want *ConfigurationError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}
