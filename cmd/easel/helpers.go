package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"easel/internal/queue"
)

// mimeByExtension maps the media file extensions the remote service accepts.
// Unknown extensions fall back to octet-stream; the remote side rejects what
// it cannot decode.
var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// payloadFromFile reads a media file and encodes it as an inline payload.
func payloadFromFile(path string) (*queue.Payload, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read media file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("media file %s is empty", path)
	}
	mime := mimeByExtension[strings.ToLower(filepath.Ext(path))]
	if mime == "" {
		mime = "application/octet-stream"
	}
	return &queue.Payload{
		MimeType: mime,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

// payloadsFromFiles encodes multiple media files, preserving order.
func payloadsFromFiles(paths []string) ([]queue.Payload, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	payloads := make([]queue.Payload, 0, len(paths))
	for _, path := range paths {
		payload, err := payloadFromFile(path)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			payloads = append(payloads, *payload)
		}
	}
	return payloads, nil
}
