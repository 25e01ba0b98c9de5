package api

import (
	"context"

	"easel/internal/queue"
)

// QueueReader abstracts queue persistence interactions needed for API queries.
type QueueReader interface {
	ListAll(ctx context.Context) ([]queue.Entry, error)
	Get(ctx context.Context, id string) (queue.Entry, error)
}

// QueueService exposes read-only queue operations returning API DTOs.
type QueueService struct {
	store QueueReader
}

// NewQueueService constructs a QueueService around the provided reader.
func NewQueueService(store QueueReader) *QueueService {
	if store == nil {
		return nil
	}
	return &QueueService{store: store}
}

// List returns every queue item, newest first, optionally filtered by status.
func (s *QueueService) List(ctx context.Context, statuses ...queue.Status) ([]QueueItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	entries, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(statuses) > 0 {
		filtered := entries[:0:0]
		for _, entry := range entries {
			for _, status := range statuses {
				if entry.EntryStatus() == status {
					filtered = append(filtered, entry)
					break
				}
			}
		}
		entries = filtered
	}
	return FromEntries(entries), nil
}

// Stats returns queue summary counts keyed by status string.
func (s *QueueService) Stats(ctx context.Context) (map[string]int, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	entries, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return CountByStatus(entries), nil
}

// Describe fetches a single queue item, or nil when absent.
func (s *QueueService) Describe(ctx context.Context, id string) (*QueueItem, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	entry, err := s.store.Get(ctx, id)
	if err != nil || entry == nil {
		return nil, err
	}
	dto := FromEntry(entry)
	return &dto, nil
}
