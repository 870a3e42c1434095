package odyssey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Static errors for Odyssey client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key is provided and
	// ODYSSEY_API_KEY is not set in the environment.
	ErrAPIKeyNotSet = errors.New("odyssey: API key is required")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("odyssey: job ID is required")
	// ErrEmptyScript is returned when a submit request carries no script events.
	ErrEmptyScript = errors.New("odyssey: script must contain at least one event")
	// ErrNoJobIDReturned is returned when the submit response contains no job ID.
	ErrNoJobIDReturned = errors.New("odyssey: submit failed: no job ID returned")
	// ErrSubmitFailed is returned when the service rejects a submission.
	ErrSubmitFailed = errors.New("odyssey: submit failed")
	// ErrServerError is returned when the server returns a 5xx status code.
	ErrServerError = errors.New("odyssey: server error")
	// ErrRateLimited is returned when the server returns a 429 status code.
	ErrRateLimited = errors.New("odyssey: rate limited")
	// ErrRequestFailed is returned when the request fails with a non-2xx status code.
	ErrRequestFailed = errors.New("odyssey: request failed")
)

// Client defines the interface for interacting with the Odyssey simulation API.
type Client interface {
	// Submit sends a simulation job and returns the job ID.
	Submit(ctx context.Context, req SubmitRequest) (jobID string, err error)

	// GetStatus fetches the current status of a simulation job.
	GetStatus(ctx context.Context, jobID string) (JobStatus, error)

	// ListSimulations returns up to limit recent simulation jobs.
	ListSimulations(ctx context.Context, limit int) (JobList, error)

	// Cancel requests cancellation of a pending or running job.
	Cancel(ctx context.Context, jobID string) (CancelResult, error)
}

// HTTPClient is the HTTP implementation of the Odyssey Client interface.
type HTTPClient struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithAPIKey sets the API key for authentication.
func WithAPIKey(key string) ClientOption {
	return func(hc *HTTPClient) {
		hc.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithBaseURL sets a custom base URL for the Odyssey API.
func WithBaseURL(url string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = url
	}
}

// WithMaxRetries sets the maximum number of retries for transient failures.
func WithMaxRetries(n int) ClientOption {
	return func(hc *HTTPClient) {
		hc.maxRetries = n
	}
}

// WithBaseBackoff sets the initial backoff duration for retries.
func WithBaseBackoff(d time.Duration) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseBackoff = d
	}
}

// NewClient creates a new Odyssey HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable ODYSSEY_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:     "https://api.odyssey.ml/v1",
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxRetries:  3,
		baseBackoff: 1 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	// If API key was not set via option, try environment variable
	if c.apiKey == "" {
		c.apiKey = os.Getenv("ODYSSEY_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// Submit sends a simulation job to Odyssey and returns the job ID.
func (c *HTTPClient) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if len(req.Script) == 0 {
		return "", ErrEmptyScript
	}

	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("odyssey: marshal request: %w", err)
	}

	url := c.baseURL + "/simulate"

	var resp submitResponse
	if err := c.doRequestWithRetry(ctx, http.MethodPost, url, bodyBytes, &resp); err != nil {
		return "", err
	}

	if resp.JobID == "" {
		if resp.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrSubmitFailed, resp.Error)
		}
		return "", ErrNoJobIDReturned
	}

	return resp.JobID, nil
}

// GetStatus fetches the current status of a simulation job.
func (c *HTTPClient) GetStatus(ctx context.Context, jobID string) (JobStatus, error) {
	if jobID == "" {
		return JobStatus{}, ErrJobIDRequired
	}

	url := fmt.Sprintf("%s/simulate/%s", c.baseURL, jobID)

	var resp JobStatus
	if err := c.doRequestWithRetry(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return JobStatus{}, err
	}

	if resp.JobID == "" {
		resp.JobID = jobID
	}

	return resp, nil
}

// ListSimulations returns up to limit recent simulation jobs.
// A limit of zero or less uses the service default.
func (c *HTTPClient) ListSimulations(ctx context.Context, limit int) (JobList, error) {
	url := c.baseURL + "/simulate"
	if limit > 0 {
		url += "?limit=" + strconv.Itoa(limit)
	}

	var resp JobList
	if err := c.doRequestWithRetry(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return JobList{}, err
	}

	return resp, nil
}

// Cancel requests cancellation of a pending or running job.
func (c *HTTPClient) Cancel(ctx context.Context, jobID string) (CancelResult, error) {
	if jobID == "" {
		return CancelResult{}, ErrJobIDRequired
	}

	url := fmt.Sprintf("%s/simulate/%s/cancel", c.baseURL, jobID)

	var resp CancelResult
	if err := c.doRequestWithRetry(ctx, http.MethodPost, url, nil, &resp); err != nil {
		return CancelResult{}, err
	}

	return resp, nil
}

// doRequestWithRetry performs an HTTP request with exponential backoff retry.
func (c *HTTPClient) doRequestWithRetry(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var lastErr error
	backoff := c.baseBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("odyssey: context cancelled: %w", ctx.Err())
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}

		err := c.doRequest(ctx, method, url, body, result)
		if err == nil {
			return nil
		}

		// Check if error is retryable
		if !isRetryable(err) {
			return err
		}

		lastErr = err
	}

	return fmt.Errorf("odyssey: max retries exceeded: %w", lastErr)
}

// doRequest performs a single HTTP request.
func (c *HTTPClient) doRequest(ctx context.Context, method, url string, body []byte, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("odyssey: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &retryableError{err: fmt.Errorf("odyssey: request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{err: fmt.Errorf("odyssey: read response: %w", err)}
	}

	// Handle non-2xx status codes
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// 5xx errors are retryable
		if resp.StatusCode >= 500 {
			return &retryableError{err: fmt.Errorf("%w %d: %s", ErrServerError, resp.StatusCode, string(respBody))}
		}
		// 429 (rate limit) is retryable
		if resp.StatusCode == 429 {
			return &retryableError{err: fmt.Errorf("%w: %s", ErrRateLimited, string(respBody))}
		}
		// Other errors are not retryable
		return fmt.Errorf("%w with status %d: %s", ErrRequestFailed, resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("odyssey: unmarshal response: %w", err)
		}
	}

	return nil
}

// retryableError wraps errors that should be retried.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return e.err.Error()
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// isRetryable returns true if the error should be retried.
func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
