package api

import "easel/internal/queue"

// GenerateRequest is the transport shape for a new image generation.
type GenerateRequest struct {
	Prompt          string          `json:"prompt"`
	AspectRatio     string          `json:"aspectRatio,omitempty"`
	ResolutionTier  string          `json:"resolutionTier,omitempty"`
	VariantCount    int             `json:"variantCount,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	Seed            *int64          `json:"seed,omitempty"`
	ReferenceImages []queue.Payload `json:"referenceImages,omitempty"`
}

// ToQueueRequest maps the transport shape onto the queue's request type.
func (r GenerateRequest) ToQueueRequest() queue.ImageRequest {
	return queue.ImageRequest{
		Prompt:          r.Prompt,
		AspectRatio:     r.AspectRatio,
		ResolutionTier:  r.ResolutionTier,
		VariantCount:    r.VariantCount,
		Temperature:     r.Temperature,
		Seed:            r.Seed,
		ReferenceImages: r.ReferenceImages,
	}
}

// EditRequest is the transport shape for an image edit.
type EditRequest struct {
	Prompt          string          `json:"prompt"`
	OriginalImage   queue.Payload   `json:"originalImage"`
	MaskImage       *queue.Payload  `json:"maskImage,omitempty"`
	ReferenceImages []queue.Payload `json:"referenceImages,omitempty"`
	VariantCount    int             `json:"variantCount,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	Seed            *int64          `json:"seed,omitempty"`
}

// ToQueueRequest maps the transport shape onto the queue's request type.
func (r EditRequest) ToQueueRequest() queue.ImageRequest {
	original := r.OriginalImage
	return queue.ImageRequest{
		Prompt:          r.Prompt,
		OriginalImage:   &original,
		MaskImage:       r.MaskImage,
		ReferenceImages: r.ReferenceImages,
		VariantCount:    r.VariantCount,
		Temperature:     r.Temperature,
		Seed:            r.Seed,
	}
}

// VideoSubmitRequest is the transport shape for a video generation or
// extension. Supplying a source video makes it an extension; frame images are
// only meaningful for fresh generations.
type VideoSubmitRequest struct {
	Prompt          string          `json:"prompt"`
	NegativePrompt  string          `json:"negativePrompt,omitempty"`
	AspectRatio     string          `json:"aspectRatio,omitempty"`
	Resolution      string          `json:"resolution,omitempty"`
	DurationSeconds int             `json:"durationSeconds,omitempty"`
	StartFrameImage *queue.Payload  `json:"startFrameImage,omitempty"`
	LastFrameImage  *queue.Payload  `json:"lastFrameImage,omitempty"`
	ReferenceImages []queue.Payload `json:"referenceImages,omitempty"`
	SourceVideo     *queue.Payload  `json:"sourceVideo,omitempty"`
	Seed            *int64          `json:"seed,omitempty"`
}

// ToQueueRequest maps the transport shape onto the queue's request type.
func (r VideoSubmitRequest) ToQueueRequest() queue.VideoRequest {
	return queue.VideoRequest{
		Prompt:          r.Prompt,
		NegativePrompt:  r.NegativePrompt,
		AspectRatio:     r.AspectRatio,
		Resolution:      r.Resolution,
		DurationSeconds: r.DurationSeconds,
		StartFrameImage: r.StartFrameImage,
		LastFrameImage:  r.LastFrameImage,
		ReferenceImages: r.ReferenceImages,
		SourceVideo:     r.SourceVideo,
		Seed:            r.Seed,
	}
}
