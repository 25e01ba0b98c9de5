package main

import (
	"log/slog"

	"easel/internal/canvas"
	"easel/internal/config"
	"easel/internal/kvstore"
	"easel/internal/manager"
	"easel/internal/queue"
	"easel/internal/remote"
)

// buildManager wires persistence, the remote client, and the canvas workspace
// into a queue manager. The remote credential stays inside this process.
func buildManager(cfg *config.Config, store *kvstore.Store, logger *slog.Logger) *manager.Manager {
	records := queue.NewRecordStore(store)
	client := remote.NewClientFromConfig(cfg)
	workspace := canvas.NewWorkspace(cfg, logger)
	return manager.New(records, client, client, workspace, logger)
}
