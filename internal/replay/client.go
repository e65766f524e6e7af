package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/presscoach/internal/ingest"
	"github.com/claude/presscoach/internal/ingest/landmarks"
	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
	"github.com/vmihailenco/msgpack/v5"
)

const maxAttempts = 3

// Client drives a PressCoach server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	// retryWait is the first backoff delay; it doubles per attempt.
	retryWait time.Duration
}

// NewClient creates a new HTTP client for the PressCoach server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		retryWait: time.Second,
	}
}

// Configure creates a new session on the server.
func (c *Client) Configure(ctx context.Context, in session.Input) (*session.Snapshot, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling session input: %w", err)
	}
	var snap session.Snapshot
	if err := c.post(ctx, "/api/v1/session", "application/json", data, http.StatusCreated, &snap); err != nil {
		return nil, fmt.Errorf("configuring session: %w", err)
	}
	return &snap, nil
}

// Control runs a lifecycle operation: start, pause, resume or reset.
func (c *Client) Control(ctx context.Context, op string) (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := c.post(ctx, "/api/v1/session/"+op, "", nil, http.StatusOK, &snap); err != nil {
		return nil, fmt.Errorf("session %s: %w", op, err)
	}
	return &snap, nil
}

// Finish ends the server session and returns its result and verdict.
func (c *Client) Finish(ctx context.Context) (*models.WorkoutResult, string, error) {
	var resp struct {
		Workout models.WorkoutResult `json:"workout"`
		Summary string               `json:"summary"`
	}
	if err := c.post(ctx, "/api/v1/session/finish", "", nil, http.StatusOK, &resp); err != nil {
		return nil, "", fmt.Errorf("finishing session: %w", err)
	}
	return &resp.Workout, resp.Summary, nil
}

// SendFrames POSTs a batch of frames to the ingest endpoint.
// Retries up to 3 times with exponential backoff on network and server errors.
func (c *Client) SendFrames(ctx context.Context, payloads []models.FramePayload, format landmarks.Format) (*ingest.Result, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case landmarks.MsgPack:
		data, err = msgpack.Marshal(payloads)
		contentType = "application/msgpack"
	default:
		data, err = json.Marshal(payloads)
		contentType = "application/json"
	}
	if err != nil {
		return nil, fmt.Errorf("marshaling frames: %w", err)
	}

	var result ingest.Result
	if err := c.post(ctx, "/api/v1/ingest/frames", contentType, data, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// statusError is a response with an unexpected status code.
type statusError struct {
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("request failed (status %d): %s", e.code, bytes.TrimSpace(e.body))
}

// post sends body and decodes the response into out. Client errors (4xx) are
// returned at once; the rest are retried.
func (c *Client) post(ctx context.Context, path, contentType string, body []byte, want int, out any) error {
	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			wait := c.retryWait << uint(attempt-1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == want {
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}
			return nil
		}
		lastErr = &statusError{code: resp.StatusCode, body: respBody}
		if resp.StatusCode < http.StatusInternalServerError {
			return lastErr
		}
	}

	return fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}
