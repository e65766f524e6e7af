// Package replay feeds recorded landmark frames into a session, either in
// process or against a remote server.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/presscoach/internal/ingest"
	"github.com/claude/presscoach/internal/ingest/landmarks"
	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
)

// Sink applies a batch of frames. *landmarks.Provider satisfies it.
type Sink interface {
	Ingest(ctx context.Context, payloads []models.FramePayload) (*ingest.Result, error)
}

var _ Sink = (*landmarks.Provider)(nil)

// RemoteSink sends batches to a server.
type RemoteSink struct {
	Client *Client
	Format landmarks.Format
}

// Ingest implements Sink.
func (r RemoteSink) Ingest(ctx context.Context, payloads []models.FramePayload) (*ingest.Result, error) {
	return r.Client.SendFrames(ctx, payloads, r.Format)
}

// Stats tracks replay progress.
type Stats struct {
	Frames   int
	Batches  int
	Applied  int
	Skipped  int
	Rejected int
	Ticks    int
	// Finished is set when the session finished before the recording ended.
	// The rest of the recording is not sent.
	Finished bool

	Last *session.Snapshot
}

// errFinished stops the scan once the session has finished.
var errFinished = errors.New("session finished")

// Options configures a Replayer.
type Options struct {
	// BatchSize is the number of frames per Sink call. Values below 1 mean 1.
	BatchSize int
	// Pace, when set, is waited between batches.
	Pace time.Duration
	// Clock, when set, receives one tick per second of recording time,
	// measured from frame timestamps in milliseconds.
	Clock session.ClockTarget
	// OnBatch is called after every applied batch.
	OnBatch func(*ingest.Result)
}

// Replayer reads a newline-delimited JSON recording and sends it in batches.
type Replayer struct {
	sink  Sink
	opts  Options
	log   *slog.Logger
	stats Stats

	batch   []models.FramePayload
	firstTS int64
}

// New creates a new Replayer.
func New(sink Sink, opts Options, log *slog.Logger) *Replayer {
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	return &Replayer{sink: sink, opts: opts, log: log}
}

// Run replays r to the end. Stats are returned even on error.
func (rp *Replayer) Run(ctx context.Context, r io.Reader) (*Stats, error) {
	err := landmarks.Scan(r, func(line int, p models.FramePayload) error {
		if err := rp.advanceClock(ctx, p.Timestamp); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if rp.finished() {
			return errFinished
		}
		rp.stats.Frames++
		rp.batch = append(rp.batch, p)
		if len(rp.batch) >= rp.opts.BatchSize {
			if err := rp.flush(ctx); err != nil {
				return err
			}
		}
		if rp.finished() {
			return errFinished
		}
		return nil
	})
	if errors.Is(err, errFinished) {
		rp.stats.Finished = true
		return &rp.stats, nil
	}
	if err != nil {
		return &rp.stats, err
	}
	if err := rp.flush(ctx); err != nil {
		return &rp.stats, err
	}
	return &rp.stats, nil
}

// advanceClock ticks once for every whole second between the first frame and
// ts. Pending frames are sent first so ticks land between the right frames.
func (rp *Replayer) advanceClock(ctx context.Context, ts int64) error {
	if rp.opts.Clock == nil || ts <= 0 {
		return nil
	}
	if rp.firstTS == 0 {
		rp.firstTS = ts
		return nil
	}
	due := int((ts - rp.firstTS) / 1000)
	if due <= rp.stats.Ticks {
		return nil
	}
	if err := rp.flush(ctx); err != nil {
		return err
	}
	for rp.stats.Ticks < due && !rp.finished() {
		snap, err := rp.opts.Clock.Tick()
		if err != nil {
			return fmt.Errorf("clock tick: %w", err)
		}
		rp.stats.Ticks++
		rp.stats.Last = &snap
	}
	return nil
}

func (rp *Replayer) finished() bool {
	return rp.stats.Last != nil && rp.stats.Last.State == session.StateFinished
}

func (rp *Replayer) flush(ctx context.Context) error {
	if len(rp.batch) == 0 {
		return nil
	}
	if rp.opts.Pace > 0 && rp.stats.Batches > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rp.opts.Pace):
		}
	}

	result, err := rp.sink.Ingest(ctx, rp.batch)
	if err != nil {
		return fmt.Errorf("sending batch %d: %w", rp.stats.Batches+1, err)
	}
	rp.batch = nil
	rp.stats.Batches++
	rp.stats.Applied += result.FramesApplied
	rp.stats.Skipped += result.FramesSkipped
	rp.stats.Rejected += result.FramesRejected
	if result.Snapshot != nil {
		rp.stats.Last = result.Snapshot
	}
	rp.log.Debug("batch sent", "batch", rp.stats.Batches, "applied", result.FramesApplied, "skipped", result.FramesSkipped)
	if rp.opts.OnBatch != nil {
		rp.opts.OnBatch(result)
	}
	return nil
}
