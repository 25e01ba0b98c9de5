package manager

import (
	"context"
	"log/slog"

	"easel/internal/canvas"
	"easel/internal/logging"
	"easel/internal/queue"
	"easel/internal/remote"
)

// ImageClient is the batch-job side of the remote service.
type ImageClient interface {
	SubmitBatchGenerate(ctx context.Context, spec remote.GenerateSpec) (string, error)
	SubmitBatchEdit(ctx context.Context, spec remote.EditSpec) (string, error)
	GetBatchStatus(ctx context.Context, batchName string) (remote.BatchStatus, error)
	GetBatchResults(ctx context.Context, batchName string) ([]queue.Payload, error)
}

// VideoClient is the long-running-operation side of the remote service.
type VideoClient interface {
	StartVideoGeneration(ctx context.Context, spec remote.VideoSpec) (string, error)
	GetOperationStatus(ctx context.Context, operationName string) (remote.OperationStatus, error)
	GetOperationResult(ctx context.Context, operationName string) (remote.VideoResult, error)
}

// Manager owns creation, persistence, and reconciliation of queue records.
// It catches every remote error at this boundary: callers only ever observe
// record status and error fields, never raw remote failures.
type Manager struct {
	records *queue.RecordStore
	images  ImageClient
	videos  VideoClient
	canvas  canvas.Loader
	logger  *slog.Logger
}

// New constructs a manager with injected dependencies.
func New(records *queue.RecordStore, images ImageClient, videos VideoClient, loader canvas.Loader, logger *slog.Logger) *Manager {
	return &Manager{
		records: records,
		images:  images,
		videos:  videos,
		canvas:  loader,
		logger:  logging.WithComponent(logger, "manager"),
	}
}

// ListAll returns image and video records merged, newest first.
func (m *Manager) ListAll(ctx context.Context) ([]queue.Entry, error) {
	return m.records.ListAll(ctx)
}

// Get returns the record with the given id, or nil when absent.
func (m *Manager) Get(ctx context.Context, id string) (queue.Entry, error) {
	return m.records.Get(ctx, id)
}

// Delete removes the persisted record entirely. Deleting an absent or
// already-deleted id is a no-op; the remote job, if any, keeps running and is
// simply never polled again.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.records.Delete(ctx, id)
}
