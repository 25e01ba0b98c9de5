package queue

import "strings"

// Status represents the lifecycle of a queue record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusSubmitted  Status = "submitted"
	StatusProcessing Status = "processing"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusSubmitted,
	StatusProcessing,
	StatusSucceeded,
	StatusFailed,
}

// AllStatuses returns every known status in lifecycle order.
func AllStatuses() []Status {
	return append([]Status{}, allStatuses...)
}

// IsValid reports whether the status is a known lifecycle value.
func (s Status) IsValid() bool {
	for _, status := range allStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may occur.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// statusRank orders statuses along the one-directional state machine.
// succeeded and failed share a rank: both are terminal outcomes of the same
// step.
var statusRank = map[Status]int{
	StatusPending:    0,
	StatusSubmitted:  1,
	StatusProcessing: 2,
	StatusSucceeded:  3,
	StatusFailed:     3,
}

// CanTransition reports whether moving from one status to another respects
// the monotonic state machine. Intermediate steps may be skipped (a first
// poll can find a video operation already succeeded), but the order never
// reverses and terminal states never change.
func CanTransition(from, to Status) bool {
	if from.IsTerminal() {
		return false
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// batchStatePrefix is the remote batch API's state name prefix.
const batchStatePrefix = "JOB_STATE_"

// BatchStateSucceeded and friends are the remote batch states with defined
// terminal semantics. Any other state is treated as still running.
const (
	BatchStateSucceeded = "JOB_STATE_SUCCEEDED"
	BatchStateFailed    = "JOB_STATE_FAILED"
	BatchStateCancelled = "JOB_STATE_CANCELLED"
)

// BatchStateTerminalFailure reports whether the remote batch state is a
// definitive failure verdict.
func BatchStateTerminalFailure(state string) bool {
	return state == BatchStateFailed || state == BatchStateCancelled
}

// FailureReason normalizes a remote batch state name into a lower-cased
// human-readable reason, e.g. JOB_STATE_CANCELLED becomes "cancelled".
func FailureReason(state string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(state), batchStatePrefix)
	return strings.ToLower(trimmed)
}
