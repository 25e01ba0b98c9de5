package remote

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"easel/internal/queue"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", "image-model", "video-model",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)
}

func TestSubmitBatchGenerateExpandsVariants(t *testing.T) {
	var captured batchCreateRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/image-model:batchGenerateContent" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "batches/b1"})
	}))

	name, err := client.SubmitBatchGenerate(context.Background(), GenerateSpec{
		Prompt:       "a lighthouse",
		VariantCount: 3,
		AspectRatio:  "16:9",
		ReferenceImages: []queue.Payload{
			{MimeType: "image/png", Data: "cmVm"},
		},
	})
	if err != nil {
		t.Fatalf("SubmitBatchGenerate failed: %v", err)
	}
	if name != "batches/b1" {
		t.Fatalf("unexpected batch name %q", name)
	}
	requests := captured.Batch.InputConfig.Requests.Requests
	if len(requests) != 3 {
		t.Fatalf("expected 3 sub-requests, got %d", len(requests))
	}
	parts := requests[0].Request.Contents[0].Parts
	if len(parts) != 2 || parts[0].Text != "a lighthouse" || parts[1].InlineData == nil {
		t.Fatalf("unexpected parts: %#v", parts)
	}
	cfg := requests[0].Request.GenerationConfig
	if cfg == nil || cfg.ImageConfig == nil || cfg.ImageConfig.AspectRatio != "16:9" {
		t.Fatalf("aspect ratio not carried: %#v", cfg)
	}
}

func TestSubmitBatchEditOrdersParts(t *testing.T) {
	var captured batchCreateRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "batches/edit-1"})
	}))

	mask := queue.Payload{MimeType: "image/png", Data: "bWFzaw=="}
	_, err := client.SubmitBatchEdit(context.Background(), EditSpec{
		Instruction:     "remove the crane",
		OriginalImage:   queue.Payload{MimeType: "image/png", Data: "b3JpZw=="},
		ReferenceImages: []queue.Payload{{MimeType: "image/png", Data: "cmVm"}},
		MaskImage:       &mask,
	})
	if err != nil {
		t.Fatalf("SubmitBatchEdit failed: %v", err)
	}
	parts := captured.Batch.InputConfig.Requests.Requests[0].Request.Contents[0].Parts
	if len(parts) != 4 {
		t.Fatalf("expected instruction+original+mask+reference, got %d parts", len(parts))
	}
	if parts[0].Text != "remove the crane" {
		t.Fatalf("instruction must lead, got %#v", parts[0])
	}
	if parts[1].InlineData.Data != "b3JpZw==" || parts[2].InlineData.Data != "bWFzaw==" || parts[3].InlineData.Data != "cmVm" {
		t.Fatalf("unexpected part ordering: %#v", parts)
	}
	maskCount := 0
	for _, part := range parts {
		if part.InlineData != nil && part.InlineData.Data == "bWFzaw==" {
			maskCount++
		}
	}
	if maskCount != 1 {
		t.Fatalf("mask payload appears %d times, want 1", maskCount)
	}
}

func TestGetBatchStatusAndResults(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/batches/b1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name": "batches/b1",
			"metadata": map[string]any{
				"state": "JOB_STATE_SUCCEEDED",
			},
			"response": map[string]any{
				"inlinedResponses": map[string]any{
					"inlinedResponses": []map[string]any{
						{"response": map[string]any{"candidates": []map[string]any{
							{"content": map[string]any{"parts": []map[string]any{
								{"inlineData": map[string]any{"mimeType": "image/png", "data": "aW1nMQ=="}},
							}}},
						}}},
						{"response": map[string]any{"candidates": []map[string]any{
							{"content": map[string]any{"parts": []map[string]any{
								{"inlineData": map[string]any{"mimeType": "image/png", "data": "aW1nMg=="}},
							}}},
						}}},
					},
				},
			},
		})
	}))

	status, err := client.GetBatchStatus(context.Background(), "batches/b1")
	if err != nil {
		t.Fatalf("GetBatchStatus failed: %v", err)
	}
	if status.State != queue.BatchStateSucceeded {
		t.Fatalf("unexpected state %q", status.State)
	}

	images, err := client.GetBatchResults(context.Background(), "batches/b1")
	if err != nil {
		t.Fatalf("GetBatchResults failed: %v", err)
	}
	if len(images) != 2 || images[0].Data != "aW1nMQ==" || images[1].Data != "aW1nMg==" {
		t.Fatalf("unexpected results: %#v", images)
	}
}

func TestServerErrorsClassifyAsTransient(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"backend unavailable"}}`, http.StatusServiceUnavailable)
	}))

	_, err := client.GetBatchStatus(context.Background(), "batches/b1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransient(err) {
		t.Fatalf("5xx should classify transient, got %v", err)
	}
}

func TestBadRequestClassifiesAsRemote(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"prompt blocked"}}`, http.StatusBadRequest)
	}))

	_, err := client.SubmitBatchGenerate(context.Background(), GenerateSpec{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrRemote) || IsTransient(err) {
		t.Fatalf("4xx should classify as remote rejection, got %v", err)
	}
}

func TestStartVideoGenerationRejectsMixedModes(t *testing.T) {
	client := NewClient("key", "image-model", "video-model")
	source := queue.Payload{MimeType: "video/mp4", Data: "dmlk"}
	frame := queue.Payload{MimeType: "image/png", Data: "ZnJhbWU="}

	_, err := client.StartVideoGeneration(context.Background(), VideoSpec{
		Prompt:      "continue",
		SourceVideo: &source,
		StartFrame:  &frame,
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetOperationStatusMapsStates(t *testing.T) {
	responses := map[string]any{
		"running": map[string]any{
			"name": "operations/op1",
			"done": false,
			"metadata": map[string]any{
				"state":           "RUNNING",
				"progressPercent": 40.0,
			},
		},
		"failed": map[string]any{
			"name":  "operations/op1",
			"done":  true,
			"error": map[string]any{"message": "safety rejection"},
		},
	}
	var current string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(responses[current])
	}))

	current = "running"
	status, err := client.GetOperationStatus(context.Background(), "operations/op1")
	if err != nil {
		t.Fatalf("GetOperationStatus failed: %v", err)
	}
	if status.Done || status.State != OperationStateRunning || status.Progress != 0.4 {
		t.Fatalf("unexpected running status: %#v", status)
	}

	current = "failed"
	status, err = client.GetOperationStatus(context.Background(), "operations/op1")
	if err != nil {
		t.Fatalf("GetOperationStatus failed: %v", err)
	}
	if !status.Done || status.State != OperationStateFailed || status.Error != "safety rejection" {
		t.Fatalf("unexpected failed status: %#v", status)
	}
}

func TestGetOperationResultDownloadsURI(t *testing.T) {
	videoBytes := []byte("fake-video-bytes")
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/v1beta/operations/op1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/op1",
			"done": true,
			"response": map[string]any{
				"generateVideoResponse": map[string]any{
					"generatedSamples": []map[string]any{
						{
							"video":           map[string]any{"uri": server.URL + "/files/video-1"},
							"durationSeconds": 8,
							"width":           1280,
							"height":          720,
						},
					},
				},
			},
		})
	})
	mux.HandleFunc("/files/video-1", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("download must carry api key, got %q", got)
		}
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write(videoBytes)
	})

	client := NewClient("test-key", "image-model", "video-model",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)

	result, err := client.GetOperationResult(context.Background(), "operations/op1")
	if err != nil {
		t.Fatalf("GetOperationResult failed: %v", err)
	}
	if result.Video.MimeType != "video/mp4" || result.DurationSeconds != 8 {
		t.Fatalf("unexpected result: %#v", result)
	}
	decoded, err := base64.StdEncoding.DecodeString(result.Video.Data)
	if err != nil || string(decoded) != string(videoBytes) {
		t.Fatalf("unexpected video payload: %q err=%v", result.Video.Data, err)
	}
}

func TestGetOperationResultMalformedSample(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/op1",
			"done": true,
			"response": map[string]any{
				"generateVideoResponse": map[string]any{
					"generatedSamples": []map[string]any{
						{"video": map[string]any{}},
					},
				},
			},
		})
	}))

	_, err := client.GetOperationResult(context.Background(), "operations/op1")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected malformed payload error, got %v", err)
	}
}
