package pipeline

import (
	"log/slog"

	"github.com/bdpitch/odyssey-demogen/internal/odyssey"
)

// Observer receives progress events from the pipeline. It decouples the
// batch logic from any particular output; the CLI installs a LogObserver,
// tests assert on recorded events instead of captured stdout.
type Observer interface {
	// ItemStarted fires before a work item is submitted.
	ItemStarted(name string, index, total int)
	// Submitted fires after the service accepted a job.
	Submitted(name, jobID string)
	// PollAttempt fires once per status query.
	PollAttempt(jobID string, attempt int, status odyssey.Status)
	// ArtifactDownloaded fires after an artifact was written locally.
	ArtifactDownloaded(name, path string, bytes int64)
	// ArtifactMissing fires when a completed job lacks an artifact URL.
	ArtifactMissing(name, kind string)
	// ItemFailed fires when an item ends in a non-completed state.
	ItemFailed(name string, err error)
	// ItemCompleted fires when an item finished successfully.
	ItemCompleted(name string, artifacts []string)
}

// LogObserver reports pipeline progress through a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer backed by the given logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

// ItemStarted logs the start of a work item.
func (o *LogObserver) ItemStarted(name string, index, total int) {
	o.logger.Info("starting demo",
		slog.String("name", name),
		slog.Int("index", index+1),
		slog.Int("total", total),
	)
}

// Submitted logs the accepted job ID.
func (o *LogObserver) Submitted(name, jobID string) {
	o.logger.Info("job submitted",
		slog.String("name", name),
		slog.String("job_id", jobID),
	)
}

// PollAttempt logs one status query.
func (o *LogObserver) PollAttempt(jobID string, attempt int, status odyssey.Status) {
	o.logger.Info("poll attempt",
		slog.String("job_id", jobID),
		slog.Int("attempt", attempt),
		slog.String("status", string(status)),
	)
}

// ArtifactDownloaded logs a saved artifact and its size.
func (o *LogObserver) ArtifactDownloaded(name, path string, bytes int64) {
	o.logger.Info("artifact saved",
		slog.String("name", name),
		slog.String("path", path),
		slog.Int64("bytes", bytes),
	)
}

// ArtifactMissing warns about an absent artifact URL.
func (o *LogObserver) ArtifactMissing(name, kind string) {
	o.logger.Warn("artifact URL missing",
		slog.String("name", name),
		slog.String("kind", kind),
	)
}

// ItemFailed logs a failed item with its cause.
func (o *LogObserver) ItemFailed(name string, err error) {
	o.logger.Error("demo failed",
		slog.String("name", name),
		slog.String("error", err.Error()),
	)
}

// ItemCompleted logs a finished item.
func (o *LogObserver) ItemCompleted(name string, artifacts []string) {
	o.logger.Info("demo completed",
		slog.String("name", name),
		slog.Int("artifacts", len(artifacts)),
	)
}

// NopObserver discards all events.
type NopObserver struct{}

// ItemStarted is a no-op.
func (NopObserver) ItemStarted(string, int, int) {}

// Submitted is a no-op.
func (NopObserver) Submitted(string, string) {}

// PollAttempt is a no-op.
func (NopObserver) PollAttempt(string, int, odyssey.Status) {}

// ArtifactDownloaded is a no-op.
func (NopObserver) ArtifactDownloaded(string, string, int64) {}

// ArtifactMissing is a no-op.
func (NopObserver) ArtifactMissing(string, string) {}

// ItemFailed is a no-op.
func (NopObserver) ItemFailed(string, error) {}

// ItemCompleted is a no-op.
func (NopObserver) ItemCompleted(string, []string) {}

// Compile-time checks that both observers implement Observer.
var (
	_ Observer = (*LogObserver)(nil)
	_ Observer = NopObserver{}
)
