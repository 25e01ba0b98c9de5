package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"easel/internal/api"
	"easel/internal/config"
	"easel/internal/logging"
	"easel/internal/manager"
	"easel/internal/queue"
)

// Daemon coordinates background refresh and the local HTTP API, and enforces
// single-instance execution via a lock file.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	manager *manager.Manager

	lockPath string
	lock     *flock.Flock

	scheduler *cron.Cron
	apiServer *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	PID             int
	StorePath       string
	LockFilePath    string
	RefreshInterval time.Duration
	QueueStats      map[string]int
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, mgr *manager.Manager, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || mgr == nil || logger == nil {
		return nil, errors.New("daemon requires config, manager, and logger")
	}
	lockPath := filepath.Join(cfg.Paths.DataDir, "easeld.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		manager:  mgr,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	server, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiServer = server
	return d, nil
}

// Start acquires the instance lock, schedules the background refresh, and
// brings up the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another easel daemon instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if interval := d.refreshInterval(); interval > 0 {
		// The job closure captures the context here so a concurrent teardown
		// never races a field read inside a running sweep.
		refreshCtx := d.ctx
		d.scheduler = cron.New()
		d.scheduler.Schedule(cron.Every(interval), cron.FuncJob(func() { d.runRefresh(refreshCtx) }))
		d.scheduler.Start()
		d.logger.Info("background refresh scheduled", logging.Duration("interval", interval))
	} else {
		d.logger.Info("background refresh disabled")
	}

	if err := d.apiServer.start(d.ctx); err != nil {
		d.teardown()
		return err
	}

	d.running.Store(true)
	d.logger.Info("easel daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing, shuts down the API, and releases the
// lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.teardown()
	d.running.Store(false)
	d.logger.Info("easel daemon stopped")
}

func (d *Daemon) teardown() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.scheduler != nil {
		stopCtx := d.scheduler.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(5 * time.Second):
			d.logger.Warn("refresh job did not finish before shutdown")
		}
		d.scheduler = nil
	}
	d.apiServer.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

func (d *Daemon) refreshInterval() time.Duration {
	seconds := d.cfg.Workflow.RefreshInterval
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func (d *Daemon) runRefresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := d.manager.RefreshAll(ctx); err != nil {
		d.logger.Warn("scheduled refresh failed", logging.Error(err))
	}
}

// RefreshAll triggers an immediate reconciliation sweep.
func (d *Daemon) RefreshAll(ctx context.Context) ([]queue.Entry, error) {
	return d.manager.RefreshAll(ctx)
}

// ListQueue returns queue entries, newest first.
func (d *Daemon) ListQueue(ctx context.Context) ([]queue.Entry, error) {
	return d.manager.ListAll(ctx)
}

// DescribeQueue returns one entry, or nil when absent.
func (d *Daemon) DescribeQueue(ctx context.Context, id string) (queue.Entry, error) {
	return d.manager.Get(ctx, id)
}

// Select reconciles one record on demand and loads its result to the canvas
// when it has succeeded.
func (d *Daemon) Select(ctx context.Context, id string) error {
	return d.manager.Select(ctx, id)
}

// RemoveQueue deletes a record. Absent ids are a no-op.
func (d *Daemon) RemoveQueue(ctx context.Context, id string) error {
	return d.manager.Delete(ctx, id)
}

// ClearFailed removes every failed record and reports how many were deleted.
func (d *Daemon) ClearFailed(ctx context.Context) (int, error) {
	entries, err := d.manager.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if entry.EntryStatus() != queue.StatusFailed {
			continue
		}
		if err := d.manager.Delete(ctx, entry.EntryID()); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	stats := map[string]int{}
	if entries, err := d.manager.ListAll(ctx); err == nil {
		stats = api.CountByStatus(entries)
	}
	return Status{
		Running:         d.running.Load(),
		PID:             os.Getpid(),
		StorePath:       filepath.Join(d.cfg.Paths.DataDir, "records.db"),
		LockFilePath:    d.lockPath,
		RefreshInterval: d.refreshInterval(),
		QueueStats:      stats,
	}
}

// APIAddr returns the bound HTTP API address, or empty when disabled.
func (d *Daemon) APIAddr() string {
	return d.apiServer.addr()
}
