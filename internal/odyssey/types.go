// Package odyssey provides an HTTP client for the Odyssey world-model simulation API.
package odyssey

// Status represents the status of an Odyssey simulation job.
type Status string

// Terminal statuses reported by the Odyssey API. Any other status string
// (queued, pending, running, ...) is treated as non-terminal; the service
// does not document the full set of intermediate states.
const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// ScriptEvent is one timed event in a simulation script. Exactly one of
// Start, Interact, or End must be set.
type ScriptEvent struct {
	TimestampMS int             `json:"timestamp_ms"`
	Start       *StartAction    `json:"start,omitempty"`
	Interact    *InteractAction `json:"interact,omitempty"`
	End         *EndAction      `json:"end,omitempty"`
}

// StartAction opens a simulation with an initial scene prompt.
type StartAction struct {
	Prompt string `json:"prompt"`
}

// InteractAction steers a running simulation with a follow-up prompt.
type InteractAction struct {
	Prompt string `json:"prompt"`
}

// EndAction marks the end of the script.
type EndAction struct{}

// SubmitRequest is the payload for submitting a simulation job.
// The script must begin with a start event at timestamp 0 and finish
// with an end event; validation of the sequence is left to the service.
type SubmitRequest struct {
	Script   []ScriptEvent `json:"script"`
	Portrait bool          `json:"portrait"`
}

// submitResponse is the response from the simulate endpoint.
type submitResponse struct {
	JobID string `json:"job_id"`
	Error string `json:"error,omitempty"`
}

// Stream describes one recorded output stream of a completed simulation.
type Stream struct {
	StreamID        string  `json:"stream_id"`
	DurationSeconds float64 `json:"duration_seconds"`
	VideoURL        string  `json:"video_url,omitempty"`
	ThumbnailURL    string  `json:"thumbnail_url,omitempty"`
}

// JobStatus is the status payload for a simulation job.
type JobStatus struct {
	JobID   string   `json:"job_id"`
	Status  Status   `json:"status"`
	Streams []Stream `json:"streams,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// JobList is the response from listing recent simulations.
type JobList struct {
	Total int         `json:"total"`
	Jobs  []JobStatus `json:"jobs"`
}

// CancelResult is the response from cancelling a simulation job.
type CancelResult struct {
	JobID     string `json:"job_id"`
	Cancelled bool   `json:"cancelled"`
}
