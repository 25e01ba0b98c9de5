package api

import (
	"time"

	"easel/internal/queue"
)

// FromEntry converts a queue record to its API representation.
func FromEntry(entry queue.Entry) QueueItem {
	if entry == nil {
		return QueueItem{}
	}
	dto := QueueItem{
		ID:           entry.EntryID(),
		Kind:         string(entry.EntryKind()),
		Status:       string(entry.EntryStatus()),
		Prompt:       entry.EntryPrompt(),
		ErrorMessage: entry.EntryError(),
		CreatedAt:    FormatTime(entry.EntryCreatedAt()),
	}
	switch record := entry.(type) {
	case *queue.ImageRecord:
		dto.ResultCount = len(record.ResultImages)
		dto.RemoteName = record.RemoteJobName
		dto.SubmittedAt = formatTimePtr(record.SubmittedAt)
		dto.CompletedAt = formatTimePtr(record.CompletedAt)
	case *queue.VideoRecord:
		if record.ResultVideo != nil && !record.ResultVideo.IsZero() {
			dto.ResultCount = 1
		}
		dto.ProgressPercent = record.ProgressPercent
		dto.RemoteName = record.RemoteOperationName
		dto.SubmittedAt = formatTimePtr(record.SubmittedAt)
		dto.CompletedAt = formatTimePtr(record.CompletedAt)
	}
	return dto
}

// FromEntries converts a slice of queue records into API DTOs, preserving
// order.
func FromEntries(entries []queue.Entry) []QueueItem {
	if len(entries) == 0 {
		return nil
	}
	out := make([]QueueItem, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromEntry(entry))
	}
	return out
}

// CountByStatus summarizes entries into status-keyed counts.
func CountByStatus(entries []queue.Entry) map[string]int {
	counts := make(map[string]int, len(queue.AllStatuses()))
	for _, entry := range entries {
		counts[string(entry.EntryStatus())]++
	}
	return counts
}

// FormatTime converts a time to RFC3339 or returns empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}
