package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what a queue record asks the remote service to do.
type Kind string

const (
	KindGenerate      Kind = "generate"
	KindEdit          Kind = "edit"
	KindVideoGenerate Kind = "video-generate"
	KindVideoExtend   Kind = "video-extend"
)

// IsVideo reports whether the kind belongs to the video record family.
func (k Kind) IsVideo() bool {
	return k == KindVideoGenerate || k == KindVideoExtend
}

// Entry is the capability shared by both record families. Listing, merging,
// and presentation code operates on entries; submission and polling dispatch
// on the concrete record type.
type Entry interface {
	EntryID() string
	EntryKind() Kind
	EntryStatus() Status
	EntryPrompt() string
	EntryCreatedAt() time.Time
	EntryError() string
}

// ImageRecord is a persisted image generation or edit request.
type ImageRecord struct {
	ID              string     `json:"id"`
	Kind            Kind       `json:"kind"`
	Prompt          string     `json:"prompt"`
	AspectRatio     string     `json:"aspectRatio,omitempty"`
	ResolutionTier  string     `json:"resolutionTier,omitempty"`
	ReferenceImages []Payload  `json:"referenceImages,omitempty"`
	OriginalImage   *Payload   `json:"originalImage,omitempty"`
	MaskImage       *Payload   `json:"maskImage,omitempty"`
	Temperature     *float64   `json:"temperature,omitempty"`
	Seed            *int64     `json:"seed,omitempty"`
	VariantCount    int        `json:"variantCount,omitempty"`
	RemoteJobName   string     `json:"remoteJobName,omitempty"`
	Status          Status     `json:"status"`
	ResultImages    []Payload  `json:"resultImages,omitempty"`
	ErrorMessage    string     `json:"error,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func (r *ImageRecord) EntryID() string           { return r.ID }
func (r *ImageRecord) EntryKind() Kind           { return r.Kind }
func (r *ImageRecord) EntryStatus() Status       { return r.Status }
func (r *ImageRecord) EntryPrompt() string       { return r.Prompt }
func (r *ImageRecord) EntryCreatedAt() time.Time { return r.CreatedAt }
func (r *ImageRecord) EntryError() string        { return r.ErrorMessage }

// VideoRecord is a persisted video generation or extension request.
type VideoRecord struct {
	ID                  string     `json:"id"`
	Kind                Kind       `json:"kind"`
	Prompt              string     `json:"prompt"`
	NegativePrompt      string     `json:"negativePrompt,omitempty"`
	AspectRatio         string     `json:"aspectRatio,omitempty"`
	Resolution          string     `json:"resolution,omitempty"`
	DurationSeconds     int        `json:"durationSeconds,omitempty"`
	StartFrameImage     *Payload   `json:"startFrameImage,omitempty"`
	LastFrameImage      *Payload   `json:"lastFrameImage,omitempty"`
	ReferenceImages     []Payload  `json:"referenceImages,omitempty"`
	SourceVideo         *Payload   `json:"sourceVideo,omitempty"`
	Seed                *int64     `json:"seed,omitempty"`
	RemoteOperationName string     `json:"remoteOperationName,omitempty"`
	Status              Status     `json:"status"`
	ProgressPercent     float64    `json:"progressPercent,omitempty"`
	ResultVideo         *Payload   `json:"resultVideo,omitempty"`
	ErrorMessage        string     `json:"error,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	SubmittedAt         *time.Time `json:"submittedAt,omitempty"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
}

func (r *VideoRecord) EntryID() string           { return r.ID }
func (r *VideoRecord) EntryKind() Kind           { return r.Kind }
func (r *VideoRecord) EntryStatus() Status       { return r.Status }
func (r *VideoRecord) EntryPrompt() string       { return r.Prompt }
func (r *VideoRecord) EntryCreatedAt() time.Time { return r.CreatedAt }
func (r *VideoRecord) EntryError() string        { return r.ErrorMessage }

// ImageRequest captures a user-initiated image generation or edit.
type ImageRequest struct {
	Prompt          string
	AspectRatio     string
	ResolutionTier  string
	ReferenceImages []Payload
	OriginalImage   *Payload
	MaskImage       *Payload
	Temperature     *float64
	Seed            *int64
	VariantCount    int
}

// VideoRequest captures a user-initiated video generation or extension.
type VideoRequest struct {
	Prompt          string
	NegativePrompt  string
	AspectRatio     string
	Resolution      string
	DurationSeconds int
	StartFrameImage *Payload
	LastFrameImage  *Payload
	ReferenceImages []Payload
	SourceVideo     *Payload
	Seed            *int64
}

// NewImageRecord builds a pending image record from a request. The kind is
// derived from the request shape: an original image makes it an edit.
func NewImageRecord(req ImageRequest) (*ImageRecord, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("image record: prompt required")
	}
	kind := KindGenerate
	if req.OriginalImage != nil && !req.OriginalImage.IsZero() {
		kind = KindEdit
	}
	if req.MaskImage != nil && kind != KindEdit {
		return nil, errors.New("image record: mask requires an original image to edit")
	}
	variants := req.VariantCount
	if variants <= 0 {
		variants = 1
	}
	return &ImageRecord{
		ID:              uuid.NewString(),
		Kind:            kind,
		Prompt:          prompt,
		AspectRatio:     strings.TrimSpace(req.AspectRatio),
		ResolutionTier:  strings.TrimSpace(req.ResolutionTier),
		ReferenceImages: clonePayloads(req.ReferenceImages),
		OriginalImage:   clonePayload(req.OriginalImage),
		MaskImage:       clonePayload(req.MaskImage),
		Temperature:     req.Temperature,
		Seed:            req.Seed,
		VariantCount:    variants,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// NewVideoRecord builds a pending video record from a request. Extension
// (source video) and frame-guided generation are mutually exclusive by
// construction: when a source video is supplied the frame images are cleared
// and the record becomes an extension.
func NewVideoRecord(req VideoRequest) (*VideoRecord, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("video record: prompt required")
	}
	if req.DurationSeconds < 0 {
		return nil, fmt.Errorf("video record: duration %d must not be negative", req.DurationSeconds)
	}
	record := &VideoRecord{
		ID:              uuid.NewString(),
		Kind:            KindVideoGenerate,
		Prompt:          prompt,
		NegativePrompt:  strings.TrimSpace(req.NegativePrompt),
		AspectRatio:     strings.TrimSpace(req.AspectRatio),
		Resolution:      strings.TrimSpace(req.Resolution),
		DurationSeconds: req.DurationSeconds,
		StartFrameImage: clonePayload(req.StartFrameImage),
		LastFrameImage:  clonePayload(req.LastFrameImage),
		ReferenceImages: clonePayloads(req.ReferenceImages),
		SourceVideo:     clonePayload(req.SourceVideo),
		Seed:            req.Seed,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if record.SourceVideo != nil && !record.SourceVideo.IsZero() {
		record.Kind = KindVideoExtend
		record.StartFrameImage = nil
		record.LastFrameImage = nil
	} else {
		record.SourceVideo = nil
	}
	return record, nil
}

func clonePayload(p *Payload) *Payload {
	if p == nil || p.IsZero() {
		return nil
	}
	cp := *p
	return &cp
}

func clonePayloads(payloads []Payload) []Payload {
	if len(payloads) == 0 {
		return nil
	}
	out := make([]Payload, 0, len(payloads))
	for _, p := range payloads {
		if p.IsZero() {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
