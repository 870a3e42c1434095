package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdpitch/odyssey-demogen/internal/odyssey"
)

// pollStep is one scripted GetStatus response.
type pollStep struct {
	status odyssey.JobStatus
	err    error
}

// scriptedClient replays a fixed sequence of status responses. The last
// step repeats if polled past the end of the script.
type scriptedClient struct {
	steps []pollStep
	calls int
}

func (c *scriptedClient) GetStatus(_ context.Context, jobID string) (odyssey.JobStatus, error) {
	i := c.calls
	c.calls++
	if i >= len(c.steps) {
		i = len(c.steps) - 1
	}
	step := c.steps[i]
	if step.status.JobID == "" {
		step.status.JobID = jobID
	}
	return step.status, step.err
}

func (c *scriptedClient) Submit(context.Context, odyssey.SubmitRequest) (string, error) {
	return "", errors.New("not implemented")
}

func (c *scriptedClient) ListSimulations(context.Context, int) (odyssey.JobList, error) {
	return odyssey.JobList{}, errors.New("not implemented")
}

func (c *scriptedClient) Cancel(context.Context, string) (odyssey.CancelResult, error) {
	return odyssey.CancelResult{}, errors.New("not implemented")
}

func steps(statuses ...odyssey.Status) []pollStep {
	out := make([]pollStep, len(statuses))
	for i, s := range statuses {
		out[i] = pollStep{status: odyssey.JobStatus{Status: s}}
	}
	return out
}

func fastPolicy(maxAttempts int) PollPolicy {
	return PollPolicy{Interval: time.Millisecond, MaxAttempts: maxAttempts}
}

func TestWaitForCompletion_Completed(t *testing.T) {
	client := &scriptedClient{steps: []pollStep{
		{status: odyssey.JobStatus{Status: "queued"}},
		{status: odyssey.JobStatus{Status: "queued"}},
		{status: odyssey.JobStatus{
			Status: odyssey.StatusCompleted,
			Streams: []odyssey.Stream{{
				VideoURL:     "https://cdn.example.com/v.mp4",
				ThumbnailURL: "https://cdn.example.com/t.jpg",
			}},
		}},
	}}

	status, err := WaitForCompletion(context.Background(), client, "job-1", fastPolicy(0), nil)
	require.NoError(t, err)
	assert.Equal(t, odyssey.StatusCompleted, status.Status)
	require.Len(t, status.Streams, 1)
	assert.Equal(t, 3, client.calls)
}

func TestWaitForCompletion_TerminalFailure(t *testing.T) {
	for _, terminal := range []odyssey.Status{odyssey.StatusFailed, odyssey.StatusCancelled} {
		t.Run(string(terminal), func(t *testing.T) {
			client := &scriptedClient{steps: steps("queued", "running", "running", terminal)}

			_, err := WaitForCompletion(context.Background(), client, "job-2", fastPolicy(0), nil)
			require.Error(t, err)

			var tf *TerminalFailureError
			require.ErrorAs(t, err, &tf)
			assert.Equal(t, "job-2", tf.JobID)
			assert.Equal(t, terminal, tf.Status)
			assert.Equal(t, 4, client.calls)
		})
	}
}

func TestWaitForCompletion_UnknownStatusesAreNonTerminal(t *testing.T) {
	client := &scriptedClient{steps: steps("warming_up", "rendering", "uploading", odyssey.StatusCompleted)}

	status, err := WaitForCompletion(context.Background(), client, "job-3", fastPolicy(0), nil)
	require.NoError(t, err)
	assert.Equal(t, odyssey.StatusCompleted, status.Status)
	assert.Equal(t, 4, client.calls)
}

func TestWaitForCompletion_AttemptBudget(t *testing.T) {
	client := &scriptedClient{steps: steps("queued")}

	_, err := WaitForCompletion(context.Background(), client, "job-4", fastPolicy(3), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, 3, client.calls)
}

func TestWaitForCompletion_TransportError(t *testing.T) {
	transportErr := errors.New("connection refused")
	client := &scriptedClient{steps: []pollStep{{err: transportErr}}}

	_, err := WaitForCompletion(context.Background(), client, "job-5", fastPolicy(0), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, transportErr)
}

func TestWaitForCompletion_ContextCancelled(t *testing.T) {
	client := &scriptedClient{steps: steps("queued")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitForCompletion(ctx, client, "job-6", PollPolicy{Interval: time.Minute}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, client.calls)
}

func TestWaitForCompletion_ReportsAttempts(t *testing.T) {
	client := &scriptedClient{steps: steps("queued", "running", odyssey.StatusCompleted)}
	obs := &recordingObserver{}

	_, err := WaitForCompletion(context.Background(), client, "job-7", fastPolicy(0), obs)
	require.NoError(t, err)

	require.Len(t, obs.polls, 3)
	assert.Equal(t, 1, obs.polls[0].attempt)
	assert.Equal(t, odyssey.Status("queued"), obs.polls[0].status)
	assert.Equal(t, 3, obs.polls[2].attempt)
	assert.Equal(t, odyssey.StatusCompleted, obs.polls[2].status)
}
