package landmarks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/claude/presscoach/internal/ingest"
	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/pose"
	"github.com/claude/presscoach/internal/session"
)

// FrameSink receives decoded frames. *session.Manager satisfies it.
type FrameSink interface {
	IngestFrame(f pose.Frame) (session.Snapshot, error)
}

// Provider turns frame payloads into session frame ticks.
type Provider struct {
	sink FrameSink
	log  *slog.Logger
}

// NewProvider creates a new landmark ingest provider.
func NewProvider(sink FrameSink, log *slog.Logger) *Provider {
	return &Provider{sink: sink, log: log}
}

// Ingest applies payloads in order. Payloads that cannot form a frame are
// rejected and frames missing joints are skipped; both are counted and the
// rest still apply. When a frame finishes the session the remaining frames
// are dropped. Ingest stops with an error when there is no session to feed.
func (p *Provider) Ingest(ctx context.Context, payloads []models.FramePayload) (*ingest.Result, error) {
	result := &ingest.Result{FramesReceived: len(payloads)}

	for i, payload := range payloads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		frame, err := payload.Frame()
		if err != nil {
			result.FramesRejected++
			p.log.Debug("frame rejected", "index", i, "ts", payload.Timestamp, "error", err)
			continue
		}

		snap, err := p.sink.IngestFrame(frame)
		switch {
		case err == nil:
			result.FramesApplied++
		case errors.Is(err, pose.ErrLandmarkMissing):
			result.FramesSkipped++
		case errors.Is(err, session.ErrSessionFinished) && result.Snapshot != nil && result.Snapshot.State == session.StateFinished:
			// An earlier frame of this batch finished the session.
			result.Message = fmt.Sprintf("session finished; %d frames not applied", len(payloads)-i)
			return result, nil
		default:
			return result, fmt.Errorf("ingesting frame %d: %w", i, err)
		}
		result.Snapshot = &snap
	}

	if result.FramesRejected > 0 || result.FramesSkipped > 0 {
		result.Message = fmt.Sprintf("%d frames rejected, %d skipped for missing joints",
			result.FramesRejected, result.FramesSkipped)
	}
	return result, nil
}

// IngestBytes decodes a raw payload and applies it.
func (p *Provider) IngestBytes(ctx context.Context, data []byte, format Format) (*ingest.Result, error) {
	payloads, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return p.Ingest(ctx, payloads)
}
