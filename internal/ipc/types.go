package ipc

import "easel/internal/api"

// QueueItem mirrors the HTTP API queue DTO for internal IPC callers.
type QueueItem = api.QueueItem

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running         bool           `json:"running"`
	PID             int            `json:"pid"`
	QueueStats      map[string]int `json:"queue_stats"`
	LockPath        string         `json:"lock_path"`
	StorePath       string         `json:"store_path"`
	RefreshInterval string         `json:"refresh_interval,omitempty"`
}

// StopRequest stops the daemon.
type StopRequest struct{}

// StopResponse indicates stop result.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// RefreshRequest triggers an immediate reconciliation sweep.
type RefreshRequest struct{}

// RefreshResponse returns the queue after the sweep.
type RefreshResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueListRequest filters queue listing by status.
type QueueListRequest struct {
	Statuses []string `json:"statuses"`
}

// QueueListResponse contains queue entries, newest first.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueDescribeRequest fetches a single queue record by id.
type QueueDescribeRequest struct {
	ID string `json:"id"`
}

// QueueDescribeResponse contains a single queue entry.
type QueueDescribeResponse struct {
	Item QueueItem `json:"item"`
}

// SelectRequest reconciles one record on demand and loads its result.
type SelectRequest struct {
	ID string `json:"id"`
}

// SelectResponse contains the record state after selection.
type SelectResponse struct {
	Item QueueItem `json:"item"`
}

// QueueRemoveRequest removes one record by id.
type QueueRemoveRequest struct {
	ID string `json:"id"`
}

// QueueRemoveResponse acknowledges removal.
type QueueRemoveResponse struct {
	Removed bool `json:"removed"`
}

// QueueClearFailedRequest removes failed records.
type QueueClearFailedRequest struct{}

// QueueClearFailedResponse reports number of removed records.
type QueueClearFailedResponse struct {
	Removed int `json:"removed"`
}
