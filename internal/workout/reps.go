// Package workout holds the stateful counters of a training session: the
// repetition counter, the session clock and the set tracker, plus the calorie
// estimate derived from them.
package workout

// MotionPhase records which halves of the press cycle have been observed since
// the last credit. Both latches are sticky until TryCredit consumes them.
type MotionPhase struct {
	rack  bool // phase A
	press bool // phase B
}

// Observe latches whichever phases the current frame showed.
func (m *MotionPhase) Observe(rack, press bool) {
	m.rack = m.rack || rack
	m.press = m.press || press
}

// TryCredit reports whether both phases have been seen and counting is
// enabled. On success both latches are cleared; otherwise nothing changes.
func (m *MotionPhase) TryCredit(enabled bool) bool {
	if !enabled || !m.rack || !m.press {
		return false
	}
	m.rack, m.press = false, false
	return true
}

// Latched returns the current latch values.
func (m MotionPhase) Latched() (rack, press bool) {
	return m.rack, m.press
}

// RepCounter counts repetitions in half-rep steps.
type RepCounter struct {
	phase   MotionPhase
	halves  int
	enabled bool
}

// Observe feeds one frame's phase latches and credits half a rep when the
// cycle is complete. It returns true when a credit was made.
func (r *RepCounter) Observe(rack, press bool) bool {
	r.phase.Observe(rack, press)
	if !r.phase.TryCredit(r.enabled) {
		return false
	}
	r.halves++
	return true
}

// SetEnabled turns counting on or off. Latches are kept either way.
func (r *RepCounter) SetEnabled(enabled bool) {
	r.enabled = enabled
}

// Enabled reports whether counting is on.
func (r *RepCounter) Enabled() bool {
	return r.enabled
}

// Count returns the rep count, a multiple of 0.5.
func (r *RepCounter) Count() float64 {
	return float64(r.halves) / 2
}

// Whole returns the integer part of the rep count.
func (r *RepCounter) Whole() int {
	return r.halves / 2
}

// Phase returns the current latch state.
func (r *RepCounter) Phase() MotionPhase {
	return r.phase
}

// Clear zeroes the count and both latches. The enabled flag is unchanged.
func (r *RepCounter) Clear() {
	r.halves = 0
	r.phase = MotionPhase{}
}
