package taskstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/primind-remind-scheduling/internal/observability/tracing"
)

// ErrProfileNotFound is returned when the task service has no profile
// record for a user.
var ErrProfileNotFound = errors.New("user profile not found")

// Client reads tasks and user profiles from the task management
// service over JSON HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set("x-request-id", requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("failed to send request to task service",
			slog.String("url", u.String()),
			slog.String("error", err.Error()),
		)
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("failed to read response body from task service",
			slog.String("error", err.Error()),
		)
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

// ListTasks fetches the user's current tasks. The task service owns
// filtering by visibility; completed tasks are still returned so the
// caller can clear their schedules.
func (c *Client) ListTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	path := fmt.Sprintf("/api/v1/users/%s/tasks", url.PathEscape(userID))

	body, status, err := c.get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		slog.Error("unexpected status code from task service",
			slog.String("user_id", userID),
			slog.Int("status_code", status),
		)
		return nil, fmt.Errorf("unexpected status code: %d", status)
	}

	var tasksResp tasksResponse
	if err := json.Unmarshal(body, &tasksResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(tasksResp.Tasks))
	for _, t := range tasksResp.Tasks {
		tasks = append(tasks, t.toDomain())
	}

	slog.Debug("fetched tasks from task service",
		slog.String("user_id", userID),
		slog.Int("count", len(tasks)),
	)

	return tasks, nil
}

// GetProfile fetches the user's work-hour profile. A missing profile
// yields the default profile, not an error.
func (c *Client) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	path := fmt.Sprintf("/api/v1/users/%s/profile", url.PathEscape(userID))

	body, status, err := c.get(ctx, path, nil)
	if err != nil {
		return domain.DefaultProfile(), err
	}
	if status == http.StatusNotFound {
		slog.Debug("no profile for user, using defaults",
			slog.String("user_id", userID),
		)
		return domain.DefaultProfile(), nil
	}
	if status != http.StatusOK {
		slog.Error("unexpected status code from task service",
			slog.String("user_id", userID),
			slog.Int("status_code", status),
		)
		return domain.DefaultProfile(), fmt.Errorf("unexpected status code: %d", status)
	}

	var profileResp profileResponse
	if err := json.Unmarshal(body, &profileResp); err != nil {
		return domain.DefaultProfile(), fmt.Errorf("failed to decode response: %w", err)
	}

	return profileResp.toDomain(), nil
}

// ListUserIDs fetches the IDs of users with at least one active task,
// updated since the given time when since is non-zero.
func (c *Client) ListUserIDs(ctx context.Context, since time.Time) ([]string, error) {
	var query url.Values
	if !since.IsZero() {
		query = url.Values{}
		query.Set("updated_since", since.Format(time.RFC3339))
	}

	body, status, err := c.get(ctx, "/api/v1/users", query)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		slog.Error("unexpected status code from task service",
			slog.Int("status_code", status),
		)
		return nil, fmt.Errorf("unexpected status code: %d", status)
	}

	var idsResp userIDsResponse
	if err := json.Unmarshal(body, &idsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return idsResp.UserIDs, nil
}
