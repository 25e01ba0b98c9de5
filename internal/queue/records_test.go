package queue_test

import (
	"testing"

	"easel/internal/queue"
)

func payload(data string) *queue.Payload {
	return &queue.Payload{MimeType: "image/png", Data: data}
}

func TestNewImageRecordDerivesKind(t *testing.T) {
	generate, err := queue.NewImageRecord(queue.ImageRequest{Prompt: "a quiet harbor"})
	if err != nil {
		t.Fatalf("NewImageRecord failed: %v", err)
	}
	if generate.Kind != queue.KindGenerate {
		t.Fatalf("expected generate kind, got %s", generate.Kind)
	}
	if generate.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", generate.Status)
	}
	if generate.ID == "" {
		t.Fatal("expected generated id")
	}
	if generate.VariantCount != 1 {
		t.Fatalf("expected default variant count 1, got %d", generate.VariantCount)
	}

	edit, err := queue.NewImageRecord(queue.ImageRequest{
		Prompt:        "remove the crane",
		OriginalImage: payload("b3JpZ2luYWw="),
		MaskImage:     payload("bWFzaw=="),
	})
	if err != nil {
		t.Fatalf("NewImageRecord edit failed: %v", err)
	}
	if edit.Kind != queue.KindEdit {
		t.Fatalf("expected edit kind, got %s", edit.Kind)
	}
}

func TestNewImageRecordValidation(t *testing.T) {
	if _, err := queue.NewImageRecord(queue.ImageRequest{Prompt: "  "}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if _, err := queue.NewImageRecord(queue.ImageRequest{
		Prompt:    "mask without original",
		MaskImage: payload("bWFzaw=="),
	}); err == nil {
		t.Fatal("expected error for mask without original image")
	}
}

func TestNewVideoRecordModesAreExclusive(t *testing.T) {
	extend, err := queue.NewVideoRecord(queue.VideoRequest{
		Prompt:          "continue the shot",
		SourceVideo:     &queue.Payload{MimeType: "video/mp4", Data: "dmlkZW8="},
		StartFrameImage: payload("ZnJhbWU="),
		LastFrameImage:  payload("ZnJhbWUy"),
	})
	if err != nil {
		t.Fatalf("NewVideoRecord failed: %v", err)
	}
	if extend.Kind != queue.KindVideoExtend {
		t.Fatalf("expected extension kind, got %s", extend.Kind)
	}
	if extend.StartFrameImage != nil || extend.LastFrameImage != nil {
		t.Fatal("frame images must be cleared when a source video is supplied")
	}
	if extend.SourceVideo == nil {
		t.Fatal("source video must be retained in extension mode")
	}

	generate, err := queue.NewVideoRecord(queue.VideoRequest{
		Prompt:          "sunrise over dunes",
		StartFrameImage: payload("ZnJhbWU="),
	})
	if err != nil {
		t.Fatalf("NewVideoRecord failed: %v", err)
	}
	if generate.Kind != queue.KindVideoGenerate {
		t.Fatalf("expected generation kind, got %s", generate.Kind)
	}
	if generate.SourceVideo != nil {
		t.Fatal("generation mode must not carry a source video")
	}
}

func TestNewVideoRecordValidation(t *testing.T) {
	if _, err := queue.NewVideoRecord(queue.VideoRequest{Prompt: ""}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
	if _, err := queue.NewVideoRecord(queue.VideoRequest{Prompt: "x", DurationSeconds: -4}); err == nil {
		t.Fatal("expected error for negative duration")
	}
}

func TestCanTransitionIsMonotonic(t *testing.T) {
	cases := []struct {
		from, to queue.Status
		want     bool
	}{
		{queue.StatusPending, queue.StatusSubmitted, true},
		{queue.StatusPending, queue.StatusFailed, true},
		{queue.StatusSubmitted, queue.StatusProcessing, true},
		{queue.StatusSubmitted, queue.StatusSucceeded, true},
		{queue.StatusProcessing, queue.StatusFailed, true},
		{queue.StatusSubmitted, queue.StatusPending, false},
		{queue.StatusProcessing, queue.StatusSubmitted, false},
		{queue.StatusSucceeded, queue.StatusFailed, false},
		{queue.StatusFailed, queue.StatusSubmitted, false},
	}
	for _, tc := range cases {
		if got := queue.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestFailureReasonNormalizesState(t *testing.T) {
	cases := map[string]string{
		"JOB_STATE_CANCELLED": "cancelled",
		"JOB_STATE_FAILED":    "failed",
		" JOB_STATE_EXPIRED ": "expired",
	}
	for state, want := range cases {
		if got := queue.FailureReason(state); got != want {
			t.Errorf("FailureReason(%q) = %q, want %q", state, got, want)
		}
	}
}
