//go:build !gcloud

package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/primind-remind-scheduling/internal/domain"
)

// HTTPSink submits notifications to the local delivery service over
// plain JSON HTTP.
type HTTPSink struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewHTTPSink(baseURL string, maxRetries int) *HTTPSink {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &HTTPSink{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

type scheduleResponse struct {
	Handle    string    `json:"handle"`
	DeliverAt time.Time `json:"deliver_at"`
}

type pendingResponse struct {
	Notifications []Pending `json:"notifications"`
	Count         int       `json:"count"`
}

func (s *HTTPSink) Schedule(ctx context.Context, n *Notification) (string, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("failed to marshal notification: %w", err)
	}

	endpoint := s.baseURL + "/api/v1/notifications"

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying notification submission",
				slog.String("task_id", n.TaskID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		handle, err := s.doSchedule(ctx, endpoint, body, n)
		if err == nil {
			return handle, nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for notification submission",
		slog.String("task_id", n.TaskID),
		slog.Int("max_retries", s.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return "", fmt.Errorf("failed to schedule notification after %d retries: %w", s.maxRetries, lastErr)
}

func (s *HTTPSink) doSchedule(ctx context.Context, endpoint string, body []byte, n *Notification) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var scheduled scheduleResponse
	if err := json.Unmarshal(respBody, &scheduled); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	slog.Debug("notification submitted to delivery service",
		slog.String("task_id", n.TaskID),
		slog.String("handle", scheduled.Handle),
		slog.Time("deliver_at", n.DeliverAt),
	)

	return scheduled.Handle, nil
}

func (s *HTTPSink) Cancel(ctx context.Context, handle string) error {
	endpoint := fmt.Sprintf("%s/api/v1/notifications/%s", s.baseURL, url.PathEscape(handle))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// A handle that was already delivered or expired is not an error.
	if resp.StatusCode == http.StatusNotFound {
		slog.Debug("notification handle not found on cancel (may have been delivered)",
			slog.String("handle", handle),
		)
		return nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

func (s *HTTPSink) CancelAllOfType(ctx context.Context, typ domain.NotificationType) error {
	endpoint := fmt.Sprintf("%s/api/v1/notifications?type=%s", s.baseURL, url.QueryEscape(typ.String()))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

func (s *HTTPSink) ListPending(ctx context.Context) ([]Pending, error) {
	endpoint := s.baseURL + "/api/v1/notifications/pending"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var pending pendingResponse
	if err := json.Unmarshal(body, &pending); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return pending.Notifications, nil
}
