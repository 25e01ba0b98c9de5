package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"easel/internal/kvstore"
)

// Key layout: <prefix><namespace>.<record id>. The version in the prefix lets
// a future schema change coexist with old cached data: typed readers simply
// never see keys written under another version.
const (
	keyPrefix      = "easel.v1."
	imageNamespace = "queue"
	videoNamespace = "video-queue"
)

func imageKey(id string) string { return keyPrefix + imageNamespace + "." + id }
func videoKey(id string) string { return keyPrefix + videoNamespace + "." + id }

// RecordStore maps typed queue records onto the generic key-value store,
// namespaced separately for image and video records.
type RecordStore struct {
	kv *kvstore.Store
}

// NewRecordStore wraps a key-value store with typed record accessors.
func NewRecordStore(kv *kvstore.Store) *RecordStore {
	return &RecordStore{kv: kv}
}

// SaveImage upserts the full image record.
func (s *RecordStore) SaveImage(ctx context.Context, record *ImageRecord) error {
	if record == nil || strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("save image record: id required")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode image record: %w", err)
	}
	return s.kv.Set(ctx, imageKey(record.ID), data)
}

// SaveVideo upserts the full video record.
func (s *RecordStore) SaveVideo(ctx context.Context, record *VideoRecord) error {
	if record == nil || strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("save video record: id required")
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode video record: %w", err)
	}
	return s.kv.Set(ctx, videoKey(record.ID), data)
}

// GetImage returns the image record, or nil when absent. A stored value that
// no longer decodes as the current record shape is treated as absent rather
// than surfaced as an error.
func (s *RecordStore) GetImage(ctx context.Context, id string) (*ImageRecord, error) {
	value, ok, err := s.kv.Get(ctx, imageKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeImage(value), nil
}

// GetVideo returns the video record, or nil when absent.
func (s *RecordStore) GetVideo(ctx context.Context, id string) (*VideoRecord, error) {
	value, ok, err := s.kv.Get(ctx, videoKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeVideo(value), nil
}

// Get returns whichever record family holds the id, as a shared Entry.
func (s *RecordStore) Get(ctx context.Context, id string) (Entry, error) {
	image, err := s.GetImage(ctx, id)
	if err != nil {
		return nil, err
	}
	if image != nil {
		return image, nil
	}
	video, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, nil
	}
	return video, nil
}

// UpdateImage applies mutate to a freshly-read record and persists the
// result. A missing record is a silent no-op so a delete racing an in-flight
// poll cannot resurrect the record.
func (s *RecordStore) UpdateImage(ctx context.Context, id string, mutate func(*ImageRecord)) (*ImageRecord, error) {
	record, err := s.GetImage(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	mutate(record)
	if err := s.SaveImage(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UpdateVideo applies mutate to a freshly-read record and persists the
// result. A missing record is a silent no-op.
func (s *RecordStore) UpdateVideo(ctx context.Context, id string, mutate func(*VideoRecord)) (*VideoRecord, error) {
	record, err := s.GetVideo(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	mutate(record)
	if err := s.SaveVideo(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the record with the given id from either namespace.
// Deleting an absent id is not an error.
func (s *RecordStore) Delete(ctx context.Context, id string) error {
	if err := s.kv.Delete(ctx, imageKey(id)); err != nil {
		return err
	}
	return s.kv.Delete(ctx, videoKey(id))
}

// ListImages returns every image record, newest first.
func (s *RecordStore) ListImages(ctx context.Context) ([]*ImageRecord, error) {
	keys, err := s.kv.ListKeys(ctx, keyPrefix+imageNamespace+".")
	if err != nil {
		return nil, err
	}
	records := make([]*ImageRecord, 0, len(keys))
	for _, key := range keys {
		value, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if record := decodeImage(value); record != nil {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return entryLess(records[j], records[i])
	})
	return records, nil
}

// ListVideos returns every video record, newest first.
func (s *RecordStore) ListVideos(ctx context.Context) ([]*VideoRecord, error) {
	keys, err := s.kv.ListKeys(ctx, keyPrefix+videoNamespace+".")
	if err != nil {
		return nil, err
	}
	records := make([]*VideoRecord, 0, len(keys))
	for _, key := range keys {
		value, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if record := decodeVideo(value); record != nil {
			records = append(records, record)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return entryLess(records[j], records[i])
	})
	return records, nil
}

// ListAll returns image and video records merged into one sequence, newest
// first. The ordering is a contract observed by consumers, not an accident of
// insertion order.
func (s *RecordStore) ListAll(ctx context.Context) ([]Entry, error) {
	images, err := s.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	videos, err := s.ListVideos(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(images)+len(videos))
	for _, record := range images {
		entries = append(entries, record)
	}
	for _, record := range videos {
		entries = append(entries, record)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entryLess(entries[j], entries[i])
	})
	return entries, nil
}

// entryLess orders entries oldest-first, breaking created-at ties by id so
// listings are deterministic.
func entryLess(a, b Entry) bool {
	at, bt := a.EntryCreatedAt(), b.EntryCreatedAt()
	if at.Equal(bt) {
		return a.EntryID() < b.EntryID()
	}
	return at.Before(bt)
}

func decodeImage(value []byte) *ImageRecord {
	var record ImageRecord
	if err := json.Unmarshal(value, &record); err != nil {
		return nil
	}
	if strings.TrimSpace(record.ID) == "" || !record.Status.IsValid() {
		return nil
	}
	return &record
}

func decodeVideo(value []byte) *VideoRecord {
	var record VideoRecord
	if err := json.Unmarshal(value, &record); err != nil {
		return nil
	}
	if strings.TrimSpace(record.ID) == "" || !record.Status.IsValid() {
		return nil
	}
	return &record
}
