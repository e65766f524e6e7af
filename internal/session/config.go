package session

import (
	"fmt"
	"strings"

	"github.com/claude/presscoach/internal/workout"
)

// ConfigurationError reports user configuration that cannot start a session.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Input is the user-entered workout configuration, as received from a form,
// an API call or the config file.
type Input struct {
	Name         string  `json:"name" yaml:"name"`
	Goal         string  `json:"goal" yaml:"goal"`
	WeightKg     float64 `json:"weight_kg" yaml:"weight_kg"`
	RepsPerSet   int     `json:"reps_per_set" yaml:"reps_per_set"`
	TargetSets   int     `json:"target_sets" yaml:"target_sets"`
	FinishOnGoal *bool   `json:"finish_on_goal,omitempty" yaml:"finish_on_goal,omitempty"`
}

// Config is a validated session configuration.
type Config struct {
	Name         string
	Goal         workout.HMS
	WeightKg     float64
	RepsPerSet   int
	TargetSets   int
	FinishOnGoal bool
}

// Parse validates the input. Errors are *ConfigurationError.
func (in Input) Parse() (Config, error) {
	goal, err := workout.ParseHMS(in.Goal)
	if err != nil {
		return Config{}, &ConfigurationError{Field: "goal", Reason: "unparsable duration", Err: err}
	}
	cfg := Config{
		Name:         strings.TrimSpace(in.Name),
		Goal:         goal,
		WeightKg:     in.WeightKg,
		RepsPerSet:   in.RepsPerSet,
		TargetSets:   in.TargetSets,
		FinishOnGoal: true,
	}
	if in.FinishOnGoal != nil {
		cfg.FinishOnGoal = *in.FinishOnGoal
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the numeric fields.
func (c Config) Validate() error {
	if c.WeightKg <= 0 {
		return &ConfigurationError{Field: "weight_kg", Reason: "must be positive"}
	}
	if c.RepsPerSet <= 0 {
		return &ConfigurationError{Field: "reps_per_set", Reason: "must be positive"}
	}
	if c.TargetSets <= 0 {
		return &ConfigurationError{Field: "target_sets", Reason: "must be positive"}
	}
	return nil
}
