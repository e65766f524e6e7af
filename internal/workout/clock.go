package workout

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HMS is a clock reading in hours, minutes and seconds.
type HMS struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// ParseHMS parses "H:M:S". Every field must be a non-negative integer and
// minutes and seconds must be below 60.
func ParseHMS(s string) (HMS, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return HMS{}, fmt.Errorf("duration %q: want H:M:S", s)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return HMS{}, fmt.Errorf("duration %q: %w", s, err)
		}
		if n < 0 {
			return HMS{}, fmt.Errorf("duration %q: negative field", s)
		}
		fields[i] = n
	}
	if fields[1] > 59 || fields[2] > 59 {
		return HMS{}, fmt.Errorf("duration %q: minutes and seconds must be below 60", s)
	}
	return HMS{Hours: fields[0], Minutes: fields[1], Seconds: fields[2]}, nil
}

// Duration converts the reading to a time.Duration.
func (h HMS) Duration() time.Duration {
	return time.Duration(h.Hours)*time.Hour + time.Duration(h.Minutes)*time.Minute + time.Duration(h.Seconds)*time.Second
}

// IsZero reports whether the reading is 00:00:00.
func (h HMS) IsZero() bool {
	return h == HMS{}
}

// String formats the reading as HH:MM:SS.
func (h HMS) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", h.Hours, h.Minutes, h.Seconds)
}

// ClockMode is the direction the session clock is running in.
type ClockMode string

const (
	Countdown ClockMode = "countdown"
	Overtime  ClockMode = "overtime"
)

// ClockState is a snapshot of the session clock.
type ClockState struct {
	Mode      ClockMode `json:"mode"`
	Goal      HMS       `json:"goal"`
	Remaining HMS       `json:"remaining"`
	Overtime  HMS       `json:"overtime"`
	Display   string    `json:"display"`
	Elapsed   string    `json:"elapsed"`
}

// Clock counts down from a goal duration and, once it reaches zero, counts up
// as overtime. Overtime is never left except through Reset.
type Clock struct {
	goal      HMS
	remaining HMS
	overtime  HMS
	mode      ClockMode
}

// NewClock returns a clock at the start of a countdown from goal. A zero goal
// starts directly in overtime.
func NewClock(goal HMS) *Clock {
	c := &Clock{goal: goal}
	c.Reset()
	return c
}

// Tick advances the clock by one second.
func (c *Clock) Tick() {
	if c.mode == Overtime {
		c.overtime.Seconds++
		if c.overtime.Seconds == 60 {
			c.overtime.Seconds = 0
			c.overtime.Minutes++
		}
		if c.overtime.Minutes == 60 {
			c.overtime.Minutes = 0
			c.overtime.Hours++
		}
		return
	}

	r := &c.remaining
	switch {
	case r.Seconds > 0:
		r.Seconds--
	case r.Minutes > 0:
		r.Minutes--
		r.Seconds = 59
	case r.Hours > 0:
		r.Hours--
		r.Minutes = 59
		r.Seconds = 59
	}
	if r.IsZero() {
		c.mode = Overtime
	}
}

// Reset restores the remaining time to the goal and leaves overtime.
func (c *Clock) Reset() {
	c.remaining = c.goal
	c.overtime = HMS{}
	c.mode = Countdown
	if c.remaining.IsZero() {
		c.mode = Overtime
	}
}

// Mode returns the current direction.
func (c *Clock) Mode() ClockMode {
	return c.mode
}

// Elapsed is the time worked so far: goal minus remaining while counting down,
// goal plus overtime afterwards.
func (c *Clock) Elapsed() time.Duration {
	if c.mode == Overtime {
		return c.goal.Duration() + c.overtime.Duration()
	}
	return c.goal.Duration() - c.remaining.Duration()
}

// Display is the reading shown to the user: remaining time during the
// countdown, overtime elapsed afterwards.
func (c *Clock) Display() string {
	if c.mode == Overtime {
		return c.overtime.String()
	}
	return c.remaining.String()
}

// State returns a snapshot of the clock.
func (c *Clock) State() ClockState {
	return ClockState{
		Mode:      c.mode,
		Goal:      c.goal,
		Remaining: c.remaining,
		Overtime:  c.overtime,
		Display:   c.Display(),
		Elapsed:   formatDuration(c.Elapsed()),
	}
}

func formatDuration(d time.Duration) string {
	total := int(d / time.Second)
	return HMS{Hours: total / 3600, Minutes: total / 60 % 60, Seconds: total % 60}.String()
}
