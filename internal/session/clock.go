package session

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Ticker delivers clock ticks. It is satisfied by a wrapped time.Ticker in
// production and by a plain channel in tests.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

// NewTicker returns a Ticker firing every interval.
func NewTicker(interval time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(interval)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// ClockTarget receives clock ticks.
type ClockTarget interface {
	Tick() (Snapshot, error)
}

// RunClock feeds ticks into target until ctx is done or the ticker channel
// closes. Ticks with no live session are dropped quietly.
func RunClock(ctx context.Context, target ClockTarget, t Ticker, log *slog.Logger) {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-t.C():
			if !ok {
				return
			}
			if _, err := target.Tick(); err != nil &&
				!errors.Is(err, ErrNotConfigured) && !errors.Is(err, ErrSessionFinished) {
				log.Warn("clock tick", "error", err)
			}
		}
	}
}
