package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bdpitch/odyssey-demogen/internal/odyssey"
)

// ErrPollTimeout is returned when a job does not reach a terminal state
// within the configured attempt budget.
var ErrPollTimeout = errors.New("pipeline: poll attempt budget exceeded")

// TerminalFailureError indicates a job reached a terminal state other
// than completed.
type TerminalFailureError struct {
	JobID  string
	Status odyssey.Status
}

func (e *TerminalFailureError) Error() string {
	return fmt.Sprintf("pipeline: job %s ended with status %s", e.JobID, e.Status)
}

// PollPolicy bounds the poll loop.
type PollPolicy struct {
	// Interval is the wait between status queries.
	Interval time.Duration
	// MaxAttempts caps the number of status queries. Zero means unbounded.
	MaxAttempts int
}

// DefaultPollPolicy polls every five seconds for up to twenty minutes.
func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:    5 * time.Second,
		MaxAttempts: 240,
	}
}

// WaitForCompletion polls the job until it reaches a terminal state.
// It returns the full status payload when the job completes, a
// TerminalFailureError when it fails or is cancelled, ErrPollTimeout when
// the attempt budget runs out, and the transport error when a status
// query itself fails. Every status string other than the three terminal
// ones counts as still running.
func WaitForCompletion(ctx context.Context, client odyssey.Client, jobID string, policy PollPolicy, obs Observer) (odyssey.JobStatus, error) {
	if obs == nil {
		obs = NopObserver{}
	}
	if policy.Interval <= 0 {
		policy.Interval = 5 * time.Second
	}

	for attempt := 1; ; attempt++ {
		status, err := client.GetStatus(ctx, jobID)
		if err != nil {
			return odyssey.JobStatus{}, fmt.Errorf("pipeline: poll job %s: %w", jobID, err)
		}

		obs.PollAttempt(jobID, attempt, status.Status)

		switch status.Status {
		case odyssey.StatusCompleted:
			return status, nil
		case odyssey.StatusFailed, odyssey.StatusCancelled:
			return odyssey.JobStatus{}, &TerminalFailureError{JobID: jobID, Status: status.Status}
		}

		if policy.MaxAttempts > 0 && attempt >= policy.MaxAttempts {
			return odyssey.JobStatus{}, fmt.Errorf("%w: job %s after %d attempts", ErrPollTimeout, jobID, attempt)
		}

		select {
		case <-ctx.Done():
			return odyssey.JobStatus{}, fmt.Errorf("pipeline: poll job %s: %w", jobID, ctx.Err())
		case <-time.After(policy.Interval):
		}
	}
}
