package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestPayloadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "frame.PNG")
	if err := os.WriteFile(path, []byte("pixels"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	payload, err := payloadFromFile(path)
	if err != nil {
		t.Fatalf("payloadFromFile: %v", err)
	}
	if payload.MimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", payload.MimeType)
	}
	decoded, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if string(decoded) != "pixels" {
		t.Fatalf("unexpected payload content %q", decoded)
	}
}

func TestPayloadFromFileEmptyPath(t *testing.T) {
	payload, err := payloadFromFile("  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != nil {
		t.Fatal("expected nil payload for empty path")
	}
}

func TestPayloadFromFileUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(path, []byte{0x01}, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	payload, err := payloadFromFile(path)
	if err != nil {
		t.Fatalf("payloadFromFile: %v", err)
	}
	if payload.MimeType != "application/octet-stream" {
		t.Fatalf("expected octet-stream fallback, got %q", payload.MimeType)
	}
}

func TestPayloadFromFileRejectsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := payloadFromFile(path); err == nil {
		t.Fatal("expected error for empty media file")
	}
}
