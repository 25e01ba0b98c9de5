package manager

import (
	"context"
	"strings"
	"time"

	"easel/internal/logging"
	"easel/internal/queue"
	"easel/internal/remote"
)

// CreateAndSubmitImage persists a pending record, then submits it as a remote
// batch job. The record is written before any network traffic so a crash
// mid-submission leaves a visible pending entry instead of silent loss.
// Submission failure is recorded on the record, not returned: the caller gets
// the record id either way and observes the outcome through the queue.
func (m *Manager) CreateAndSubmitImage(ctx context.Context, req queue.ImageRequest) (string, error) {
	record, err := queue.NewImageRecord(req)
	if err != nil {
		return "", err
	}
	if err := m.records.SaveImage(ctx, record); err != nil {
		return "", err
	}
	m.logger.Info("image record queued",
		logging.String(logging.FieldRecordID, record.ID),
		logging.String(logging.FieldKind, string(record.Kind)),
	)

	batchName, err := m.submitImage(ctx, record)
	if err != nil {
		m.logger.Warn("image submission failed",
			logging.String(logging.FieldRecordID, record.ID),
			logging.Error(err),
		)
		_, updateErr := m.records.UpdateImage(ctx, record.ID, func(r *queue.ImageRecord) {
			r.Status = queue.StatusFailed
			r.ErrorMessage = errorText(err)
		})
		return record.ID, updateErr
	}

	now := time.Now().UTC()
	_, err = m.records.UpdateImage(ctx, record.ID, func(r *queue.ImageRecord) {
		r.Status = queue.StatusSubmitted
		r.RemoteJobName = batchName
		r.SubmittedAt = &now
	})
	if err != nil {
		return record.ID, err
	}
	m.logger.Info("image batch submitted",
		logging.String(logging.FieldRecordID, record.ID),
		logging.String(logging.FieldBatch, batchName),
	)
	return record.ID, nil
}

func (m *Manager) submitImage(ctx context.Context, record *queue.ImageRecord) (string, error) {
	if record.Kind == queue.KindEdit {
		return m.images.SubmitBatchEdit(ctx, editSpec(record))
	}
	return m.images.SubmitBatchGenerate(ctx, remote.GenerateSpec{
		Prompt:          record.Prompt,
		ReferenceImages: record.ReferenceImages,
		Temperature:     record.Temperature,
		Seed:            record.Seed,
		VariantCount:    record.VariantCount,
		AspectRatio:     record.AspectRatio,
		ResolutionTier:  record.ResolutionTier,
	})
}

// editSpec maps an edit record onto the wire spec. The mask travels only in
// MaskImage; the remote client places it exactly once, ahead of the other
// reference images.
func editSpec(record *queue.ImageRecord) remote.EditSpec {
	var original queue.Payload
	if record.OriginalImage != nil {
		original = *record.OriginalImage
	}
	return remote.EditSpec{
		Instruction:     record.Prompt,
		OriginalImage:   original,
		ReferenceImages: record.ReferenceImages,
		MaskImage:       record.MaskImage,
		Temperature:     record.Temperature,
		Seed:            record.Seed,
		VariantCount:    record.VariantCount,
	}
}

// CreateAndSubmitVideo persists a pending record, then starts the remote
// long-running operation. Same persist-first contract as the image path.
func (m *Manager) CreateAndSubmitVideo(ctx context.Context, req queue.VideoRequest) (string, error) {
	record, err := queue.NewVideoRecord(req)
	if err != nil {
		return "", err
	}
	if err := m.records.SaveVideo(ctx, record); err != nil {
		return "", err
	}
	m.logger.Info("video record queued",
		logging.String(logging.FieldRecordID, record.ID),
		logging.String(logging.FieldKind, string(record.Kind)),
	)

	operationName, err := m.videos.StartVideoGeneration(ctx, remote.VideoSpec{
		Prompt:          record.Prompt,
		NegativePrompt:  record.NegativePrompt,
		AspectRatio:     record.AspectRatio,
		Resolution:      record.Resolution,
		DurationSeconds: record.DurationSeconds,
		StartFrame:      record.StartFrameImage,
		LastFrame:       record.LastFrameImage,
		ReferenceImages: record.ReferenceImages,
		SourceVideo:     record.SourceVideo,
		Seed:            record.Seed,
	})
	if err != nil {
		m.logger.Warn("video submission failed",
			logging.String(logging.FieldRecordID, record.ID),
			logging.Error(err),
		)
		_, updateErr := m.records.UpdateVideo(ctx, record.ID, func(r *queue.VideoRecord) {
			r.Status = queue.StatusFailed
			r.ErrorMessage = errorText(err)
		})
		return record.ID, updateErr
	}

	now := time.Now().UTC()
	_, err = m.records.UpdateVideo(ctx, record.ID, func(r *queue.VideoRecord) {
		r.Status = queue.StatusSubmitted
		r.RemoteOperationName = operationName
		r.SubmittedAt = &now
	})
	if err != nil {
		return record.ID, err
	}
	m.logger.Info("video operation started",
		logging.String(logging.FieldRecordID, record.ID),
		logging.String(logging.FieldOperation, operationName),
	)
	return record.ID, nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	text := strings.TrimSpace(err.Error())
	if text == "" {
		return "submission failed"
	}
	return text
}
