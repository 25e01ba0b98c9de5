package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// QueueItem describes a queue record in a transport-friendly format. Payload
// bytes never travel through this shape: consumers see counts and status, the
// canvas workspace serves the media itself.
type QueueItem struct {
	ID              string  `json:"id"`
	Kind            string  `json:"kind"`
	Status          string  `json:"status"`
	Prompt          string  `json:"prompt"`
	ErrorMessage    string  `json:"errorMessage,omitempty"`
	ProgressPercent float64 `json:"progressPercent,omitempty"`
	ResultCount     int     `json:"resultCount"`
	RemoteName      string  `json:"remoteName,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	SubmittedAt     string  `json:"submittedAt,omitempty"`
	CompletedAt     string  `json:"completedAt,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running         bool           `json:"running"`
	PID             int            `json:"pid"`
	StorePath       string         `json:"storePath"`
	LockFilePath    string         `json:"lockFilePath"`
	RefreshInterval string         `json:"refreshInterval,omitempty"`
	QueueStats      map[string]int `json:"queueStats"`
}

// QueueStatsResponse provides a normalized queue stats payload.
type QueueStatsResponse struct {
	Counts map[string]int `json:"counts"`
}

// QueueListResponse wraps a collection of queue items for API responses.
type QueueListResponse struct {
	Items []QueueItem `json:"items"`
}

// QueueItemResponse wraps a single queue item.
type QueueItemResponse struct {
	Item QueueItem `json:"item"`
}

// SubmitResponse acknowledges an accepted submission with the new record id.
type SubmitResponse struct {
	ID string `json:"id"`
}
