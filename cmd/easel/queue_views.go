package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"easel/internal/ipc"
)

var statusCaser = cases.Title(language.English)

func buildQueueStatusRows(stats map[string]int) [][]string {
	if len(stats) == 0 {
		return nil
	}
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, []string{formatStatusLabel(key), fmt.Sprintf("%d", stats[key])})
	}
	return rows
}

func buildQueueListRows(items []ipc.QueueItem) [][]string {
	if len(items) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			shortID(item.ID),
			formatStatusLabel(item.Kind),
			formatStatusLabel(item.Status),
			truncatePrompt(item.Prompt, 48),
			formatDisplayTime(item.CreatedAt),
			formatProgress(item),
		})
	}
	return rows
}

func formatStatusLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return statusCaser.String(strings.ReplaceAll(value, "-", " "))
}

func formatProgress(item ipc.QueueItem) string {
	switch item.Status {
	case "failed":
		return truncatePrompt(item.ErrorMessage, 32)
	case "succeeded":
		if item.ResultCount == 1 {
			return "1 result"
		}
		return fmt.Sprintf("%d results", item.ResultCount)
	case "processing":
		if item.ProgressPercent > 0 {
			return fmt.Sprintf("%.0f%%", item.ProgressPercent)
		}
		return "running"
	default:
		return "-"
	}
}

func truncatePrompt(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDisplayTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC().Format("2006-01-02 15:04")
	}
	return value
}
