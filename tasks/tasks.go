package tasks

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	// StatusSubmitted indicates the task was accepted by the service.
	StatusSubmitted Status = "submitted"

	// StatusRunning indicates the task is being processed.
	StatusRunning Status = "running"

	// StatusCompleted indicates the task finished and outputs are ready.
	StatusCompleted Status = "completed"

	// StatusFailed indicates the task failed on the service side.
	StatusFailed Status = "failed"

	// StatusTimedOut indicates polling gave up before a terminal state.
	StatusTimedOut Status = "timed_out"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusTimedOut
}

// normalizeStatus maps wire statuses onto the lifecycle. Unrecognized
// statuses pass through untouched and are treated as non-terminal.
func normalizeStatus(wire string) Status {
	switch wire {
	case "created":
		return StatusSubmitted
	case "processing", "queued":
		return StatusRunning
	}
	return Status(wire)
}

// Handle tracks one submitted task.
type Handle struct {
	// ID is the task id assigned by the service.
	ID string

	// Status is the last observed lifecycle state.
	// Updated only by polling.
	Status Status
}

// Result is the terminal outcome of a task.
type Result struct {
	// ID is the task id.
	ID string

	// Status is the terminal state the task reached.
	Status Status

	// Outputs are the generated artifact URLs.
	Outputs []string

	// Error is the failure message reported by the service, if any.
	Error string

	// Raw is the untouched prediction payload, for callers that need
	// fields outside the common result shape.
	Raw json.RawMessage
}

// parsePrediction extracts the common result fields from a prediction
// payload.
func parsePrediction(id string, data json.RawMessage) *Result {
	res := &Result{
		ID:     id,
		Status: normalizeStatus(gjson.GetBytes(data, "status").String()),
		Error:  gjson.GetBytes(data, "error").String(),
		Raw:    data,
	}
	for _, out := range gjson.GetBytes(data, "outputs").Array() {
		res.Outputs = append(res.Outputs, out.String())
	}
	return res
}
