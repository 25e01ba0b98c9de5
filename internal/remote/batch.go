package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"easel/internal/queue"
)

// GenerateSpec describes one image generation batch submission. VariantCount
// expands into that many parallel sub-requests within a single batch job.
type GenerateSpec struct {
	Prompt          string
	ReferenceImages []queue.Payload
	Temperature     *float64
	Seed            *int64
	VariantCount    int
	AspectRatio     string
	ResolutionTier  string
}

// EditSpec describes one image edit batch submission.
type EditSpec struct {
	Instruction     string
	OriginalImage   queue.Payload
	ReferenceImages []queue.Payload
	MaskImage       *queue.Payload
	Temperature     *float64
	Seed            *int64
	VariantCount    int
}

// BatchStatus is the remote batch job state. Any state other than the
// terminal JOB_STATE_* values means the job is still running.
type BatchStatus struct {
	State        string
	DestFileName string
}

// Wire shapes for the batch API.

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

type contentPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type generationConfig struct {
	Temperature *float64     `json:"temperature,omitempty"`
	Seed        *int64       `json:"seed,omitempty"`
	ImageConfig *imageConfig `json:"imageConfig,omitempty"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type batchInlinedRequest struct {
	Request generateContentRequest `json:"request"`
}

type batchCreateRequest struct {
	Batch struct {
		DisplayName string `json:"displayName"`
		InputConfig struct {
			Requests struct {
				Requests []batchInlinedRequest `json:"requests"`
			} `json:"requests"`
		} `json:"inputConfig"`
	} `json:"batch"`
}

type batchResource struct {
	Name     string `json:"name"`
	Metadata struct {
		State  string `json:"state"`
		Output struct {
			DestFileName string `json:"responsesFile,omitempty"`
		} `json:"output"`
	} `json:"metadata"`
	Response struct {
		InlinedResponses struct {
			InlinedResponses []struct {
				Response struct {
					Candidates []struct {
						Content content `json:"content"`
					} `json:"candidates"`
				} `json:"response"`
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			} `json:"inlinedResponses"`
		} `json:"inlinedResponses"`
	} `json:"response"`
}

// SubmitBatchGenerate creates a batch job with one sub-request per requested
// variant and returns the remote batch name.
func (c *Client) SubmitBatchGenerate(ctx context.Context, spec GenerateSpec) (string, error) {
	const op = "batch generate"
	prompt := strings.TrimSpace(spec.Prompt)
	if prompt == "" {
		return "", Wrap(ErrValidation, op, "prompt required", nil)
	}

	parts := []contentPart{{Text: prompt}}
	for _, ref := range spec.ReferenceImages {
		parts = append(parts, payloadPart(ref))
	}
	request := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			Temperature: spec.Temperature,
			Seed:        spec.Seed,
			ImageConfig: newImageConfig(spec.AspectRatio, spec.ResolutionTier),
		},
	}
	return c.createBatch(ctx, op, "generate", request, spec.VariantCount)
}

// SubmitBatchEdit creates a batch edit job. The instruction and original
// image lead the content parts; a mask, when present, is placed once ahead of
// the other reference images so the masked region guides the model before any
// style references.
func (c *Client) SubmitBatchEdit(ctx context.Context, spec EditSpec) (string, error) {
	const op = "batch edit"
	instruction := strings.TrimSpace(spec.Instruction)
	if instruction == "" {
		return "", Wrap(ErrValidation, op, "instruction required", nil)
	}
	if spec.OriginalImage.IsZero() {
		return "", Wrap(ErrValidation, op, "original image required", nil)
	}

	parts := []contentPart{{Text: instruction}, payloadPart(spec.OriginalImage)}
	if spec.MaskImage != nil && !spec.MaskImage.IsZero() {
		parts = append(parts, payloadPart(*spec.MaskImage))
	}
	for _, ref := range spec.ReferenceImages {
		parts = append(parts, payloadPart(ref))
	}
	request := generateContentRequest{
		Contents: []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			Temperature: spec.Temperature,
			Seed:        spec.Seed,
		},
	}
	return c.createBatch(ctx, op, "edit", request, spec.VariantCount)
}

func (c *Client) createBatch(ctx context.Context, op, label string, request generateContentRequest, variants int) (string, error) {
	if variants <= 0 {
		variants = 1
	}
	var body batchCreateRequest
	body.Batch.DisplayName = "easel-" + label
	for i := 0; i < variants; i++ {
		body.Batch.InputConfig.Requests.Requests = append(
			body.Batch.InputConfig.Requests.Requests,
			batchInlinedRequest{Request: request},
		)
	}

	var resource batchResource
	url := c.modelURL(c.imageModel, "batchGenerateContent")
	if err := c.doJSON(ctx, http.MethodPost, url, body, &resource, op); err != nil {
		return "", err
	}
	if strings.TrimSpace(resource.Name) == "" {
		return "", Wrap(ErrMalformedPayload, op, "response missing batch name", nil)
	}
	return resource.Name, nil
}

// GetBatchStatus queries the batch job state by name.
func (c *Client) GetBatchStatus(ctx context.Context, batchName string) (BatchStatus, error) {
	const op = "batch status"
	if strings.TrimSpace(batchName) == "" {
		return BatchStatus{}, Wrap(ErrValidation, op, "batch name required", nil)
	}
	var resource batchResource
	if err := c.doJSON(ctx, http.MethodGet, c.resourceURL(batchName), nil, &resource, op); err != nil {
		return BatchStatus{}, err
	}
	return BatchStatus{
		State:        resource.Metadata.State,
		DestFileName: resource.Metadata.Output.DestFileName,
	}, nil
}

// GetBatchResults fetches the inlined image results of a succeeded batch.
// Sub-request order is preserved, so variant N of the submission is result N.
func (c *Client) GetBatchResults(ctx context.Context, batchName string) ([]queue.Payload, error) {
	const op = "batch results"
	if strings.TrimSpace(batchName) == "" {
		return nil, Wrap(ErrValidation, op, "batch name required", nil)
	}
	var resource batchResource
	if err := c.doJSON(ctx, http.MethodGet, c.resourceURL(batchName), nil, &resource, op); err != nil {
		return nil, err
	}

	var images []queue.Payload
	for i, inlined := range resource.Response.InlinedResponses.InlinedResponses {
		if msg := strings.TrimSpace(inlined.Error.Message); msg != "" {
			return nil, Wrap(ErrRemote, op, fmt.Sprintf("sub-request %d: %s", i, msg), nil)
		}
		for _, candidate := range inlined.Response.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.InlineData == nil || part.InlineData.Data == "" {
					continue
				}
				images = append(images, queue.Payload{
					MimeType: part.InlineData.MimeType,
					Data:     part.InlineData.Data,
				})
			}
		}
	}
	if len(images) == 0 {
		return nil, Wrap(ErrMalformedPayload, op, "batch response carried no images", nil)
	}
	return images, nil
}

func payloadPart(p queue.Payload) contentPart {
	return contentPart{InlineData: &inlineData{MimeType: p.MimeType, Data: p.Data}}
}

func newImageConfig(aspectRatio, resolutionTier string) *imageConfig {
	aspectRatio = strings.TrimSpace(aspectRatio)
	resolutionTier = strings.TrimSpace(resolutionTier)
	if aspectRatio == "" && resolutionTier == "" {
		return nil
	}
	return &imageConfig{AspectRatio: aspectRatio, ImageSize: resolutionTier}
}
