package workout

import "testing"

// TestSetTrackerExactMatch verifies a set only closes on an exact rep match.
func TestSetTrackerExactMatch(t *testing.T) {
	s := NewSetTracker(3, 2)
	for _, reps := range []int{0, 1, 2} {
		if s.Update(reps) {
			t.Fatalf("set closed at %d reps", reps)
		}
	}
	if !s.Update(3) {
		t.Fatal("set not closed at 3 reps")
	}
	p := s.Progress()
	if p.CompletedSets != 1 || p.CurrentReps != 0 || p.GoalAchieved {
		t.Errorf("progress = %+v", p)
	}
	if s.Update(4) {
		t.Error("set closed above target, want exact match only")
	}
}

// TestSetTrackerGoal verifies the goal latches at the target set count.
func TestSetTrackerGoal(t *testing.T) {
	s := NewSetTracker(10, 2)
	s.Update(10)
	s.Update(10)
	p := s.Progress()
	if p.CompletedSets != 2 || !p.GoalAchieved {
		t.Fatalf("progress = %+v, want 2 sets and goal achieved", p)
	}
	if p.String() != "2/2" {
		t.Errorf("display = %q, want 2/2", p.String())
	}
}

// TestSetTrackerResetKeepsGoal verifies Reset zeroes counts but keeps an
// achieved goal.
func TestSetTrackerResetKeepsGoal(t *testing.T) {
	s := NewSetTracker(1, 1)
	s.Update(1)
	s.Reset()
	p := s.Progress()
	if p.CompletedSets != 0 || p.CurrentReps != 0 {
		t.Errorf("counts after reset = %+v", p)
	}
	if !p.GoalAchieved {
		t.Error("reset cleared an achieved goal")
	}
}

// TestSetProgressTotalReps verifies finished sets and the open set are summed.
func TestSetProgressTotalReps(t *testing.T) {
	p := SetProgress{CurrentReps: 4, RepsPerSet: 10, CompletedSets: 2}
	if got := p.TotalReps(); got != 24 {
		t.Errorf("TotalReps = %d, want 24", got)
	}
}
