package workout

import "fmt"

// SetProgress is a point-in-time view of set tracking.
type SetProgress struct {
	CurrentReps   int  `json:"current_reps"`
	RepsPerSet    int  `json:"reps_per_set"`
	CompletedSets int  `json:"completed_sets"`
	TargetSets    int  `json:"target_sets"`
	GoalAchieved  bool `json:"goal_achieved"`
}

// String renders the sets display, e.g. "1/3".
func (p SetProgress) String() string {
	return fmt.Sprintf("%d/%d", p.CompletedSets, p.TargetSets)
}

// TotalReps is every rep performed: finished sets plus the set in progress.
func (p SetProgress) TotalReps() int {
	return p.CompletedSets*p.RepsPerSet + p.CurrentReps
}

// SetTracker closes sets as the whole-rep count reaches the per-set target.
type SetTracker struct {
	progress SetProgress
}

// NewSetTracker returns a tracker for the given targets. Callers validate that
// both are positive.
func NewSetTracker(repsPerSet, targetSets int) *SetTracker {
	return &SetTracker{progress: SetProgress{RepsPerSet: repsPerSet, TargetSets: targetSets}}
}

// Update records the whole reps done since the last set boundary. When they
// equal the per-set target exactly, a set is closed and Update returns true;
// the caller must then restart its rep count. The goal latches once the
// completed sets reach the target.
func (s *SetTracker) Update(wholeReps int) bool {
	s.progress.CurrentReps = wholeReps
	closed := false
	if s.progress.CurrentReps == s.progress.RepsPerSet {
		s.progress.CompletedSets++
		s.progress.CurrentReps = 0
		closed = true
	}
	if s.progress.CompletedSets == s.progress.TargetSets {
		s.progress.GoalAchieved = true
	}
	return closed
}

// Progress returns the current view.
func (s *SetTracker) Progress() SetProgress {
	return s.progress
}

// Reset zeroes reps and completed sets. An achieved goal stays achieved.
func (s *SetTracker) Reset() {
	s.progress.CurrentReps = 0
	s.progress.CompletedSets = 0
}
