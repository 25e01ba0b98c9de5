package main

import (
	"testing"

	"easel/internal/ipc"
)

func TestFormatStatusLabel(t *testing.T) {
	cases := map[string]string{
		"pending":        "Pending",
		"video-generate": "Video Generate",
		"  succeeded ":   "Succeeded",
		"":               "",
	}
	for input, want := range cases {
		if got := formatStatusLabel(input); got != want {
			t.Errorf("formatStatusLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTruncatePrompt(t *testing.T) {
	if got := truncatePrompt("short", 10); got != "short" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	got := truncatePrompt("a very long prompt that keeps going", 12)
	if got != "a very lo..." {
		t.Fatalf("expected ellipsis truncation, got %q", got)
	}
}

func TestBuildQueueListRows(t *testing.T) {
	items := []ipc.QueueItem{
		{
			ID:          "0f9b2c51-3a77-4be2-9c43-1d2f5a60e7ab",
			Kind:        "generate",
			Status:      "succeeded",
			Prompt:      "lighthouse at dusk",
			CreatedAt:   "2026-08-30T10:15:00.000Z",
			ResultCount: 2,
		},
		{
			ID:              "7d81e4f0-55cc-49a1-b0d7-8e6f2c3a9b10",
			Kind:            "video-generate",
			Status:          "processing",
			Prompt:          "storm clouds gathering",
			CreatedAt:       "2026-08-30T11:00:00.000Z",
			ProgressPercent: 40,
		},
	}

	rows := buildQueueListRows(items)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "0f9b2c51" {
		t.Fatalf("expected short id, got %q", rows[0][0])
	}
	if rows[0][5] != "2 results" {
		t.Fatalf("expected result summary, got %q", rows[0][5])
	}
	if rows[1][2] != "Processing" {
		t.Fatalf("expected Processing label, got %q", rows[1][2])
	}
	if rows[1][5] != "40%" {
		t.Fatalf("expected progress percent, got %q", rows[1][5])
	}
	if rows[0][4] != "2026-08-30 10:15" {
		t.Fatalf("unexpected created column: %q", rows[0][4])
	}
}

func TestBuildQueueStatusRows(t *testing.T) {
	rows := buildQueueStatusRows(map[string]int{"pending": 2, "failed": 1})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Failed" || rows[0][1] != "1" {
		t.Fatalf("expected sorted Failed row first, got %v", rows[0])
	}
	if buildQueueStatusRows(nil) != nil {
		t.Fatal("expected nil rows for empty stats")
	}
}
