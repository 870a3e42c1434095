package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bdpitch/odyssey-demogen/internal/odyssey"
	"github.com/bdpitch/odyssey-demogen/internal/runid"
	"github.com/bdpitch/odyssey-demogen/internal/storage"
	"github.com/bdpitch/odyssey-demogen/internal/worklist"
)

// Artifact filename suffixes. One video plus one thumbnail per demo.
const (
	VideoSuffix = ".mp4"
	ThumbSuffix = "-thumb.jpg"
)

// Runner drives the batch: submit, poll, download, one item at a time.
// Items run strictly sequentially to stay under the Odyssey concurrent-job
// limit. Each item's step function touches no shared mutable state, so a
// bounded worker pool would be a mechanical extension.
type Runner struct {
	client     odyssey.Client
	downloader *Downloader
	store      storage.Store
	policy     PollPolicy
	obs        Observer
	logger     *slog.Logger
	mirror     bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithPollPolicy overrides the default poll policy.
func WithPollPolicy(p PollPolicy) RunnerOption {
	return func(r *Runner) {
		r.policy = p
	}
}

// WithObserver installs a progress observer.
func WithObserver(obs Observer) RunnerOption {
	return func(r *Runner) {
		r.obs = obs
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMirror enables mirroring downloaded artifacts to the store's
// remote backend.
func WithMirror(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.mirror = enabled
	}
}

// NewRunner creates a batch Runner.
func NewRunner(client odyssey.Client, downloader *Downloader, store storage.Store, opts ...RunnerOption) *Runner {
	r := &Runner{
		client:     client,
		downloader: downloader,
		store:      store,
		policy:     DefaultPollPolicy(),
		obs:        NopObserver{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunBatch processes every work item in order and returns one result per
// item, in input order. Item failures are recorded, never propagated; the
// only early exit is context cancellation, which returns the results
// gathered so far.
func (r *Runner) RunBatch(ctx context.Context, items []worklist.WorkItem) Report {
	report := Report{
		RunID:   runid.Generate(),
		Results: make([]RunResult, 0, len(items)),
	}

	logger := r.logger.With(slog.String("run_id", report.RunID))
	logger.Info("starting batch",
		slog.Int("items", len(items)),
	)

	for i, item := range items {
		if ctx.Err() != nil {
			logger.Warn("batch cancelled",
				slog.Int("processed", len(report.Results)),
			)
			return report
		}

		r.obs.ItemStarted(item.Name, i, len(items))
		result := r.runItem(ctx, item)
		report.Results = append(report.Results, result)

		if result.State == StateCompleted {
			r.obs.ItemCompleted(item.Name, result.ArtifactPaths)
		} else {
			r.obs.ItemFailed(item.Name, result.Err)
		}
	}

	logger.Info("batch finished",
		slog.Int("completed", report.Completed()),
		slog.Int("failed", report.Failed()),
	)

	return report
}

// runItem processes a single work item end to end. All failures are
// folded into the returned RunResult.
func (r *Runner) runItem(ctx context.Context, item worklist.WorkItem) RunResult {
	result := RunResult{ItemName: item.Name}

	jobID, err := r.client.Submit(ctx, item.SubmitRequest())
	if err != nil {
		result.State = StateSubmissionFailed
		result.Err = err
		return result
	}
	result.JobID = jobID
	r.obs.Submitted(item.Name, jobID)

	status, err := WaitForCompletion(ctx, r.client, jobID, r.policy, r.obs)
	if err != nil {
		result.State = classifyPollError(err)
		result.Err = err
		return result
	}

	result.State = StateCompleted
	result.ArtifactPaths = r.downloadArtifacts(ctx, item.Name, status)
	return result
}

// downloadArtifacts fetches the video and thumbnail for a completed job.
// A missing URL or a failed download leaves a gap in the returned paths
// but does not fail the item; the job itself completed.
func (r *Runner) downloadArtifacts(ctx context.Context, name string, status odyssey.JobStatus) []string {
	var paths []string

	if len(status.Streams) == 0 {
		r.obs.ArtifactMissing(name, "stream")
		return paths
	}
	stream := status.Streams[0]

	for _, artifact := range []struct {
		kind   string
		url    string
		suffix string
	}{
		{"video", stream.VideoURL, VideoSuffix},
		{"thumbnail", stream.ThumbnailURL, ThumbSuffix},
	} {
		if artifact.url == "" {
			r.obs.ArtifactMissing(name, artifact.kind)
			continue
		}

		dest := r.store.ArtifactPath(name, artifact.suffix)
		n, err := r.downloader.Download(ctx, artifact.url, dest)
		if err != nil {
			r.logger.Error("artifact download failed",
				slog.String("name", name),
				slog.String("kind", artifact.kind),
				slog.String("error", err.Error()),
			)
			continue
		}

		paths = append(paths, dest)
		r.obs.ArtifactDownloaded(name, dest, n)

		if r.mirror {
			url, err := r.store.Mirror(ctx, dest, name+artifact.suffix)
			if err != nil {
				r.logger.Warn("artifact mirror failed",
					slog.String("name", name),
					slog.String("error", err.Error()),
				)
			} else {
				r.logger.Info("artifact mirrored",
					slog.String("name", name),
					slog.String("url", url),
				)
			}
		}
	}

	return paths
}

// classifyPollError maps a poll failure to the item's final state.
func classifyPollError(err error) ItemState {
	var terminal *TerminalFailureError
	if errors.As(err, &terminal) {
		if terminal.Status == odyssey.StatusCancelled {
			return StateCancelled
		}
		return StateFailed
	}
	if errors.Is(err, ErrPollTimeout) {
		return StateTimedOut
	}
	return StateFailed
}
