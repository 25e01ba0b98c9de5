package canvas

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/queue"
)

// Loader receives the payload of a succeeded queue record. Loading one media
// type clears the other, and every load resets the view transform so new
// content is visible regardless of prior camera state. This is the only side
// effect the queue manager triggers outside of persistence.
type Loader interface {
	LoadImages(ctx context.Context, images []queue.Payload) error
	LoadVideo(ctx context.Context, video queue.Payload) error
}

// ViewState is the persisted camera transform for the viewing surface.
type ViewState struct {
	Zoom  float64 `json:"zoom"`
	PanX  float64 `json:"panX"`
	PanY  float64 `json:"panY"`
	Media string  `json:"media"` // "image", "video", or "" when empty
}

const (
	imagesSubdir  = "images"
	viewStateFile = "view.json"
)

// Workspace reconciles completed media into a directory the viewer serves
// from.
type Workspace struct {
	dir    string
	logger *slog.Logger
}

// NewWorkspace builds a workspace rooted at the configured canvas directory.
func NewWorkspace(cfg *config.Config, logger *slog.Logger) *Workspace {
	return &Workspace{
		dir:    cfg.Paths.CanvasDir,
		logger: logging.WithComponent(logger, "canvas"),
	}
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string { return w.dir }

// LoadImages replaces the canvas content with the given image set.
func (w *Workspace) LoadImages(ctx context.Context, images []queue.Payload) error {
	if len(images) == 0 {
		return fmt.Errorf("canvas: no images to load")
	}
	if err := w.clear(); err != nil {
		return err
	}
	imagesDir := filepath.Join(w.dir, imagesSubdir)
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return fmt.Errorf("canvas: create images dir: %w", err)
	}
	for i, image := range images {
		data, err := base64.StdEncoding.DecodeString(image.Data)
		if err != nil {
			return fmt.Errorf("canvas: decode image %d: %w", i, err)
		}
		name := fmt.Sprintf("image-%03d%s", i+1, extensionFor(image.MimeType, ".png"))
		if err := os.WriteFile(filepath.Join(imagesDir, name), data, 0o644); err != nil {
			return fmt.Errorf("canvas: write image %d: %w", i, err)
		}
	}
	if err := w.resetView("image"); err != nil {
		return err
	}
	w.logger.Info("canvas loaded images", logging.Int("count", len(images)))
	return ctx.Err()
}

// LoadVideo replaces the canvas content with a single video.
func (w *Workspace) LoadVideo(ctx context.Context, video queue.Payload) error {
	if video.IsZero() {
		return fmt.Errorf("canvas: no video to load")
	}
	if err := w.clear(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("canvas: create dir: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(video.Data)
	if err != nil {
		return fmt.Errorf("canvas: decode video: %w", err)
	}
	name := "video" + extensionFor(video.MimeType, ".mp4")
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("canvas: write video: %w", err)
	}
	if err := w.resetView("video"); err != nil {
		return err
	}
	w.logger.Info("canvas loaded video", logging.String("file", name))
	return ctx.Err()
}

// View reads the current view state. An empty canvas yields the zero state.
func (w *Workspace) View() (ViewState, error) {
	data, err := os.ReadFile(filepath.Join(w.dir, viewStateFile))
	if os.IsNotExist(err) {
		return ViewState{Zoom: 1}, nil
	}
	if err != nil {
		return ViewState{}, fmt.Errorf("canvas: read view state: %w", err)
	}
	var view ViewState
	if err := json.Unmarshal(data, &view); err != nil {
		return ViewState{}, fmt.Errorf("canvas: decode view state: %w", err)
	}
	return view, nil
}

// clear removes all media so image and video display stay mutually
// exclusive.
func (w *Workspace) clear() error {
	entries, err := os.ReadDir(w.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("canvas: read dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == viewStateFile {
			continue
		}
		if entry.IsDir() && name != imagesSubdir {
			continue
		}
		if !entry.IsDir() && !strings.HasPrefix(name, "video") {
			continue
		}
		if err := os.RemoveAll(filepath.Join(w.dir, name)); err != nil {
			return fmt.Errorf("canvas: remove %s: %w", name, err)
		}
	}
	return nil
}

func (w *Workspace) resetView(media string) error {
	view := ViewState{Zoom: 1, PanX: 0, PanY: 0, Media: media}
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("canvas: encode view state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, viewStateFile), data, 0o644); err != nil {
		return fmt.Errorf("canvas: write view state: %w", err)
	}
	return nil
}

func extensionFor(mimeType, fallback string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	default:
		return fallback
	}
}
