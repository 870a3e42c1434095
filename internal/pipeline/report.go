// Package pipeline implements the batch generation pipeline: submit a
// simulation job per work item, poll it to a terminal state, and download
// the produced artifacts. Items are processed strictly in order, one at a
// time, and one item's failure never aborts the batch.
package pipeline

// ItemState is the final outcome of one work item.
type ItemState string

const (
	// StateCompleted indicates the job finished and artifacts were fetched.
	StateCompleted ItemState = "COMPLETED"
	// StateSubmissionFailed indicates the job was never accepted by the service.
	StateSubmissionFailed ItemState = "SUBMISSION_FAILED"
	// StateFailed indicates the job reached the failed status, or polling
	// itself failed with a transport error.
	StateFailed ItemState = "FAILED"
	// StateCancelled indicates the job reached the cancelled status.
	StateCancelled ItemState = "CANCELLED"
	// StateTimedOut indicates the poll attempt budget was exhausted.
	StateTimedOut ItemState = "TIMED_OUT"
)

// RunResult is the outcome record for one work item.
type RunResult struct {
	// ItemName is the work item's name.
	ItemName string
	// JobID is the service-assigned job ID, empty if submission failed.
	JobID string
	// State is the final outcome.
	State ItemState
	// ArtifactPaths lists the local files written, in download order.
	// A completed item may list fewer artifacts than expected when an
	// artifact URL was missing or its download failed.
	ArtifactPaths []string
	// Err carries the failure cause for non-completed items.
	Err error
}

// Report is the ordered outcome of one batch run, one result per work
// item in submission order.
type Report struct {
	// RunID identifies this batch run in logs.
	RunID string
	// Results holds one entry per work item, in input order.
	Results []RunResult
}

// Completed returns the number of items that finished successfully.
func (r Report) Completed() int {
	n := 0
	for _, res := range r.Results {
		if res.State == StateCompleted {
			n++
		}
	}
	return n
}

// Failed returns the number of items that did not complete.
func (r Report) Failed() int {
	return len(r.Results) - r.Completed()
}
