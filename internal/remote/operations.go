package remote

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"easel/internal/queue"
)

// VideoSpec describes one video generation or extension request. A source
// video and frame images are mutually exclusive; the client refuses to send
// both rather than let the remote side guess.
type VideoSpec struct {
	Prompt          string
	NegativePrompt  string
	AspectRatio     string
	Resolution      string
	DurationSeconds int
	StartFrame      *queue.Payload
	LastFrame       *queue.Payload
	ReferenceImages []queue.Payload
	SourceVideo     *queue.Payload
	Seed            *int64
}

// Operation states reported by the long-running-operation API.
const (
	OperationStatePending   = "PENDING"
	OperationStateRunning   = "RUNNING"
	OperationStateSucceeded = "SUCCEEDED"
	OperationStateFailed    = "FAILED"
)

// OperationStatus summarizes one poll of a long-running operation.
type OperationStatus struct {
	Done     bool
	State    string
	Error    string
	Progress float64 // fraction 0..1
}

// VideoResult is the resolved payload of a succeeded operation.
type VideoResult struct {
	Video           queue.Payload
	DurationSeconds int
	Width           int
	Height          int
}

// Wire shapes for the operation API.

type videoMedia struct {
	URI                string `json:"uri,omitempty"`
	BytesBase64Encoded string `json:"bytesBase64Encoded,omitempty"`
	MimeType           string `json:"mimeType,omitempty"`
}

type videoInstance struct {
	Prompt          string       `json:"prompt"`
	NegativePrompt  string       `json:"negativePrompt,omitempty"`
	Image           *inlineData  `json:"image,omitempty"`
	LastFrame       *inlineData  `json:"lastFrame,omitempty"`
	ReferenceImages []inlineData `json:"referenceImages,omitempty"`
	Video           *videoMedia  `json:"video,omitempty"`
}

type videoParameters struct {
	AspectRatio     string `json:"aspectRatio,omitempty"`
	Resolution      string `json:"resolution,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	Seed            *int64 `json:"seed,omitempty"`
}

type predictLongRunningRequest struct {
	Instances  []videoInstance `json:"instances"`
	Parameters videoParameters `json:"parameters"`
}

type operationResource struct {
	Name  string `json:"name"`
	Done  bool   `json:"done"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Metadata struct {
		State           string  `json:"state,omitempty"`
		ProgressPercent float64 `json:"progressPercent,omitempty"`
	} `json:"metadata"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video           videoMedia `json:"video"`
				DurationSeconds int        `json:"durationSeconds,omitempty"`
				Width           int        `json:"width,omitempty"`
				Height          int        `json:"height,omitempty"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
}

// StartVideoGeneration starts a long-running video operation and returns the
// operation name.
func (c *Client) StartVideoGeneration(ctx context.Context, spec VideoSpec) (string, error) {
	const op = "start video"
	prompt := strings.TrimSpace(spec.Prompt)
	if prompt == "" {
		return "", Wrap(ErrValidation, op, "prompt required", nil)
	}
	hasSource := spec.SourceVideo != nil && !spec.SourceVideo.IsZero()
	hasFrames := (spec.StartFrame != nil && !spec.StartFrame.IsZero()) ||
		(spec.LastFrame != nil && !spec.LastFrame.IsZero())
	if hasSource && hasFrames {
		return "", Wrap(ErrValidation, op, "source video and frame images are mutually exclusive", nil)
	}

	instance := videoInstance{
		Prompt:         prompt,
		NegativePrompt: strings.TrimSpace(spec.NegativePrompt),
	}
	if hasSource {
		instance.Video = &videoMedia{
			BytesBase64Encoded: spec.SourceVideo.Data,
			MimeType:           spec.SourceVideo.MimeType,
		}
	} else {
		if spec.StartFrame != nil && !spec.StartFrame.IsZero() {
			instance.Image = &inlineData{MimeType: spec.StartFrame.MimeType, Data: spec.StartFrame.Data}
		}
		if spec.LastFrame != nil && !spec.LastFrame.IsZero() {
			instance.LastFrame = &inlineData{MimeType: spec.LastFrame.MimeType, Data: spec.LastFrame.Data}
		}
	}
	for _, ref := range spec.ReferenceImages {
		if ref.IsZero() {
			continue
		}
		instance.ReferenceImages = append(instance.ReferenceImages, inlineData{MimeType: ref.MimeType, Data: ref.Data})
	}

	body := predictLongRunningRequest{
		Instances: []videoInstance{instance},
		Parameters: videoParameters{
			AspectRatio:     strings.TrimSpace(spec.AspectRatio),
			Resolution:      strings.TrimSpace(spec.Resolution),
			DurationSeconds: spec.DurationSeconds,
			Seed:            spec.Seed,
		},
	}

	var resource operationResource
	url := c.modelURL(c.videoModel, "predictLongRunning")
	if err := c.doJSON(ctx, http.MethodPost, url, body, &resource, op); err != nil {
		return "", err
	}
	if strings.TrimSpace(resource.Name) == "" {
		return "", Wrap(ErrMalformedPayload, op, "response missing operation name", nil)
	}
	return resource.Name, nil
}

// GetOperationStatus polls a long-running operation by name.
func (c *Client) GetOperationStatus(ctx context.Context, operationName string) (OperationStatus, error) {
	const op = "operation status"
	resource, err := c.getOperation(ctx, operationName, op)
	if err != nil {
		return OperationStatus{}, err
	}

	status := OperationStatus{
		Done:     resource.Done,
		State:    strings.ToUpper(strings.TrimSpace(resource.Metadata.State)),
		Progress: resource.Metadata.ProgressPercent / 100,
	}
	if resource.Error != nil {
		status.State = OperationStateFailed
		status.Error = strings.TrimSpace(resource.Error.Message)
		if status.Error == "" {
			status.Error = "operation failed"
		}
		return status, nil
	}
	if status.State == "" {
		if resource.Done {
			status.State = OperationStateSucceeded
		} else {
			status.State = OperationStateRunning
		}
	}
	return status, nil
}

// GetOperationResult resolves the video payload of a completed operation.
// When the remote side returns a URI instead of inline bytes, the secondary
// authenticated download happens here; callers only ever see a payload.
func (c *Client) GetOperationResult(ctx context.Context, operationName string) (VideoResult, error) {
	const op = "operation result"
	resource, err := c.getOperation(ctx, operationName, op)
	if err != nil {
		return VideoResult{}, err
	}
	if resource.Error != nil {
		return VideoResult{}, Wrap(ErrRemote, op, strings.TrimSpace(resource.Error.Message), nil)
	}
	samples := resource.Response.GenerateVideoResponse.GeneratedSamples
	if !resource.Done || len(samples) == 0 {
		return VideoResult{}, Wrap(ErrMalformedPayload, op, "operation carries no video sample", nil)
	}

	sample := samples[0]
	result := VideoResult{
		DurationSeconds: sample.DurationSeconds,
		Width:           sample.Width,
		Height:          sample.Height,
	}
	mimeType := sample.Video.MimeType
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	switch {
	case sample.Video.BytesBase64Encoded != "":
		result.Video = queue.Payload{MimeType: mimeType, Data: sample.Video.BytesBase64Encoded}
	case sample.Video.URI != "":
		data, contentType, err := c.download(ctx, sample.Video.URI, op)
		if err != nil {
			return VideoResult{}, err
		}
		if contentType != "" {
			mimeType = contentType
		}
		result.Video = queue.Payload{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}
	default:
		return VideoResult{}, Wrap(ErrMalformedPayload, op, "video sample missing both bytes and uri", nil)
	}
	return result, nil
}

func (c *Client) getOperation(ctx context.Context, operationName, op string) (*operationResource, error) {
	if strings.TrimSpace(operationName) == "" {
		return nil, Wrap(ErrValidation, op, "operation name required", nil)
	}
	var resource operationResource
	if err := c.doJSON(ctx, http.MethodGet, c.resourceURL(operationName), nil, &resource, op); err != nil {
		return nil, err
	}
	return &resource, nil
}
