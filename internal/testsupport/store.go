package testsupport

import (
	"context"
	"testing"
	"time"

	"easel/internal/config"
	"easel/internal/kvstore"
	"easel/internal/queue"
)

// MustOpenKV opens a kvstore.Store for tests and registers cleanup.
func MustOpenKV(t testing.TB, cfg *config.Config) *kvstore.Store {
	t.Helper()

	store, err := kvstore.Open(cfg)
	if err != nil {
		t.Fatalf("kvstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenRecords opens a typed record store over a fresh kv store.
func MustOpenRecords(t testing.TB, cfg *config.Config) *queue.RecordStore {
	t.Helper()
	return queue.NewRecordStore(MustOpenKV(t, cfg))
}

// SaveImageRecord persists an image record built from the request, optionally
// rewriting its creation time so ordering tests can fix timestamps.
func SaveImageRecord(t testing.TB, store *queue.RecordStore, req queue.ImageRequest, createdAt time.Time) *queue.ImageRecord {
	t.Helper()

	record, err := queue.NewImageRecord(req)
	if err != nil {
		t.Fatalf("queue.NewImageRecord: %v", err)
	}
	if !createdAt.IsZero() {
		record.CreatedAt = createdAt
	}
	if err := store.SaveImage(context.Background(), record); err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	return record
}

// SaveVideoRecord persists a video record built from the request.
func SaveVideoRecord(t testing.TB, store *queue.RecordStore, req queue.VideoRequest, createdAt time.Time) *queue.VideoRecord {
	t.Helper()

	record, err := queue.NewVideoRecord(req)
	if err != nil {
		t.Fatalf("queue.NewVideoRecord: %v", err)
	}
	if !createdAt.IsZero() {
		record.CreatedAt = createdAt
	}
	if err := store.SaveVideo(context.Background(), record); err != nil {
		t.Fatalf("SaveVideo: %v", err)
	}
	return record
}
