package manager

import (
	"context"
	"strings"
	"time"

	"easel/internal/logging"
	"easel/internal/queue"
	"easel/internal/remote"
)

// Select reconciles one record on demand. A succeeded record loads straight
// to the canvas without touching the network. An in-flight record gets a
// single poll: terminal remote verdicts persist, a fresh success also loads
// the canvas, and transient poll failures leave the record exactly as it was.
// A missing id is a no-op.
func (m *Manager) Select(ctx context.Context, id string) error {
	entry, err := m.records.Get(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		m.logger.Debug("select skipped, record absent", logging.String(logging.FieldRecordID, id))
		return nil
	}
	switch record := entry.(type) {
	case *queue.ImageRecord:
		return m.selectImage(ctx, record)
	case *queue.VideoRecord:
		return m.selectVideo(ctx, record)
	default:
		return nil
	}
}

func (m *Manager) selectImage(ctx context.Context, record *queue.ImageRecord) error {
	if record.Status == queue.StatusSucceeded {
		if len(record.ResultImages) == 0 {
			m.logger.Warn("succeeded image record has no results", logging.String(logging.FieldRecordID, record.ID))
			return nil
		}
		return m.canvas.LoadImages(ctx, record.ResultImages)
	}
	updated, err := m.refreshImage(ctx, record)
	if err != nil {
		return err
	}
	if updated != nil && updated.Status == queue.StatusSucceeded && len(updated.ResultImages) > 0 {
		return m.canvas.LoadImages(ctx, updated.ResultImages)
	}
	return nil
}

func (m *Manager) selectVideo(ctx context.Context, record *queue.VideoRecord) error {
	if record.Status == queue.StatusSucceeded {
		if record.ResultVideo == nil || record.ResultVideo.IsZero() {
			m.logger.Warn("succeeded video record has no payload", logging.String(logging.FieldRecordID, record.ID))
			return nil
		}
		return m.canvas.LoadVideo(ctx, *record.ResultVideo)
	}
	updated, err := m.refreshVideo(ctx, record)
	if err != nil {
		return err
	}
	if updated != nil && updated.Status == queue.StatusSucceeded && updated.ResultVideo != nil {
		return m.canvas.LoadVideo(ctx, *updated.ResultVideo)
	}
	return nil
}

// RefreshAll polls every non-terminal record once and persists whatever it
// learns. One record's poll failure never stops the sweep. The returned list
// reflects the store after the sweep, newest first.
func (m *Manager) RefreshAll(ctx context.Context) ([]queue.Entry, error) {
	entries, err := m.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.EntryStatus().IsTerminal() {
			continue
		}
		var refreshErr error
		switch record := entry.(type) {
		case *queue.ImageRecord:
			_, refreshErr = m.refreshImage(ctx, record)
		case *queue.VideoRecord:
			_, refreshErr = m.refreshVideo(ctx, record)
		}
		if refreshErr != nil {
			m.logger.Warn("refresh failed for record",
				logging.String(logging.FieldRecordID, entry.EntryID()),
				logging.Error(refreshErr),
			)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return m.records.ListAll(ctx)
}

// refreshImage performs one poll of the record's batch job and persists any
// state change. Transient remote failures are logged and swallowed so a
// flaky poll can never mark a live job failed. The returned record is the
// persisted state after the poll, or nil when the record vanished meanwhile.
func (m *Manager) refreshImage(ctx context.Context, record *queue.ImageRecord) (*queue.ImageRecord, error) {
	if record.Status.IsTerminal() || record.RemoteJobName == "" {
		return record, nil
	}
	status, err := m.images.GetBatchStatus(ctx, record.RemoteJobName)
	if err != nil {
		m.logger.Warn("batch status poll failed",
			logging.String(logging.FieldRecordID, record.ID),
			logging.String(logging.FieldBatch, record.RemoteJobName),
			logging.Error(err),
		)
		return record, nil
	}

	switch {
	case status.State == queue.BatchStateSucceeded:
		results, err := m.images.GetBatchResults(ctx, record.RemoteJobName)
		if err != nil {
			m.logger.Warn("batch result fetch failed",
				logging.String(logging.FieldRecordID, record.ID),
				logging.String(logging.FieldBatch, record.RemoteJobName),
				logging.Error(err),
			)
			return record, nil
		}
		now := time.Now().UTC()
		updated, err := m.records.UpdateImage(ctx, record.ID, func(r *queue.ImageRecord) {
			if !queue.CanTransition(r.Status, queue.StatusSucceeded) {
				return
			}
			r.Status = queue.StatusSucceeded
			r.ResultImages = results
			r.ErrorMessage = ""
			r.CompletedAt = &now
		})
		if err == nil && updated != nil {
			m.logger.Info("image batch succeeded",
				logging.String(logging.FieldRecordID, record.ID),
				logging.Int("images", len(results)),
			)
		}
		return updated, err
	case queue.BatchStateTerminalFailure(status.State):
		reason := queue.FailureReason(status.State)
		now := time.Now().UTC()
		updated, err := m.records.UpdateImage(ctx, record.ID, func(r *queue.ImageRecord) {
			if !queue.CanTransition(r.Status, queue.StatusFailed) {
				return
			}
			r.Status = queue.StatusFailed
			r.ErrorMessage = reason
			r.ResultImages = nil
			r.CompletedAt = &now
		})
		if err == nil && updated != nil {
			m.logger.Info("image batch failed",
				logging.String(logging.FieldRecordID, record.ID),
				logging.String("reason", reason),
			)
		}
		return updated, err
	default:
		// Still running. Nothing to persist for batch jobs: they report no
		// intermediate progress.
		return record, nil
	}
}

// refreshVideo performs one poll of the record's long-running operation and
// persists any state change, including progress while still running.
func (m *Manager) refreshVideo(ctx context.Context, record *queue.VideoRecord) (*queue.VideoRecord, error) {
	if record.Status.IsTerminal() || record.RemoteOperationName == "" {
		return record, nil
	}
	status, err := m.videos.GetOperationStatus(ctx, record.RemoteOperationName)
	if err != nil {
		m.logger.Warn("operation status poll failed",
			logging.String(logging.FieldRecordID, record.ID),
			logging.String(logging.FieldOperation, record.RemoteOperationName),
			logging.Error(err),
		)
		return record, nil
	}

	switch {
	case status.State == remote.OperationStateFailed || (status.Done && status.Error != ""):
		return m.failVideo(ctx, record, operationFailureText(status.Error))
	case status.Done || status.State == remote.OperationStateSucceeded:
		result, err := m.videos.GetOperationResult(ctx, record.RemoteOperationName)
		if err != nil {
			m.logger.Warn("operation result fetch failed",
				logging.String(logging.FieldRecordID, record.ID),
				logging.String(logging.FieldOperation, record.RemoteOperationName),
				logging.Error(err),
			)
			return record, nil
		}
		now := time.Now().UTC()
		updated, err := m.records.UpdateVideo(ctx, record.ID, func(r *queue.VideoRecord) {
			if !queue.CanTransition(r.Status, queue.StatusSucceeded) {
				return
			}
			r.Status = queue.StatusSucceeded
			r.ResultVideo = &result.Video
			r.ProgressPercent = 100
			r.ErrorMessage = ""
			r.CompletedAt = &now
			if result.DurationSeconds > 0 {
				r.DurationSeconds = result.DurationSeconds
			}
		})
		if err == nil && updated != nil {
			m.logger.Info("video operation succeeded",
				logging.String(logging.FieldRecordID, record.ID),
				logging.String(logging.FieldOperation, record.RemoteOperationName),
			)
		}
		return updated, err
	default:
		progress := status.Progress * 100
		return m.records.UpdateVideo(ctx, record.ID, func(r *queue.VideoRecord) {
			if queue.CanTransition(r.Status, queue.StatusProcessing) {
				r.Status = queue.StatusProcessing
			}
			if progress > r.ProgressPercent {
				r.ProgressPercent = progress
			}
		})
	}
}

func (m *Manager) failVideo(ctx context.Context, record *queue.VideoRecord, reason string) (*queue.VideoRecord, error) {
	now := time.Now().UTC()
	updated, err := m.records.UpdateVideo(ctx, record.ID, func(r *queue.VideoRecord) {
		if !queue.CanTransition(r.Status, queue.StatusFailed) {
			return
		}
		r.Status = queue.StatusFailed
		r.ErrorMessage = reason
		r.ResultVideo = nil
		r.CompletedAt = &now
	})
	if err == nil && updated != nil {
		m.logger.Info("video operation failed",
			logging.String(logging.FieldRecordID, record.ID),
			logging.String("reason", reason),
		)
	}
	return updated, err
}

func operationFailureText(errText string) string {
	text := strings.TrimSpace(errText)
	if text == "" {
		return "operation failed"
	}
	return text
}
