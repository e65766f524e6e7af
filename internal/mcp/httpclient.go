package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/presscoach/internal/models"
	"github.com/claude/presscoach/internal/session"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource and SessionSource by calling the
// PressCoach REST API. Used for remote MCP mode where the binary runs locally
// (stdio) but the coach runs on another machine (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// statusError is a non-200 API response.
type statusError struct {
	path string
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("httpclient: %s returned %d: %s", e.path, e.code, e.body)
}

// bucketToAgg maps MCP bucket values to REST API agg parameter values.
func bucketToAgg(bucket string) string {
	switch bucket {
	case "1 month":
		return "monthly"
	default:
		return "weekly"
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{path: path, code: resp.StatusCode, body: body}
	}

	return body, nil
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

// GetSession implements SessionSource.
func (c *HTTPClient) GetSession(ctx context.Context) (*session.Snapshot, error) {
	body, err := c.get(ctx, "/api/v1/session", nil)
	if isNotFound(err) {
		return nil, session.ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}

	var snap session.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &snap, nil
}

func (c *HTTPClient) QueryWorkoutResults(ctx context.Context, start, end time.Time, name string) ([]models.WorkoutResult, error) {
	params := timeParams(start, end)
	if name != "" {
		params.Set("name", name)
	}

	body, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}

	var workouts []models.WorkoutResult
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return workouts, nil
}

func (c *HTTPClient) GetWorkoutResult(ctx context.Context, id uuid.UUID) (*models.WorkoutResult, error) {
	body, err := c.get(ctx, "/api/v1/workouts/"+id.String(), nil)
	if isNotFound(err) {
		return nil, models.ErrWorkoutNotFound
	}
	if err != nil {
		return nil, err
	}

	var resp struct {
		Workout models.WorkoutResult `json:"workout"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &resp.Workout, nil
}

func (c *HTTPClient) GetHistoryStats(ctx context.Context) (*models.HistoryStats, error) {
	body, err := c.get(ctx, "/api/v1/workouts/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats models.HistoryStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}

func (c *HTTPClient) GetTrainingSummary(ctx context.Context, start, end time.Time, bucket string) ([]models.TrainingPeriod, error) {
	params := timeParams(start, end)
	params.Set("agg", bucketToAgg(bucket))

	body, err := c.get(ctx, "/api/v1/workouts/summary", params)
	if err != nil {
		return nil, err
	}

	var periods []models.TrainingPeriod
	if err := json.Unmarshal(body, &periods); err != nil {
		return nil, fmt.Errorf("httpclient: decode training summary: %w", err)
	}
	return periods, nil
}
