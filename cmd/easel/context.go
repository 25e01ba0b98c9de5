package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"easel/internal/canvas"
	"easel/internal/config"
	"easel/internal/ipc"
	"easel/internal/kvstore"
	"easel/internal/logging"
	"easel/internal/manager"
	"easel/internal/queue"
	"easel/internal/remote"
)

type commandContext struct {
	socketFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) socketPath() string {
	if c.socketFlag != nil && strings.TrimSpace(*c.socketFlag) != "" {
		return *c.socketFlag
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.SocketPath()
	}
	dataDir, err := config.ExpandPath("~/.local/share/easel")
	if err != nil {
		return filepath.Join(os.TempDir(), "easeld.sock")
	}
	return filepath.Join(dataDir, "easeld.sock")
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(err, socket)
	}
	return client, nil
}

// withClient runs fn against a live daemon connection.
func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

// withQueue runs fn against the daemon when it is reachable, or falls back to
// the manager working directly on the shared store. Read-only inspection and
// submissions both work without a running daemon; a live daemon is preferred
// so canvas loads and refreshes happen in one place.
func (c *commandContext) withQueue(fn func(*ipc.Client, *manager.Manager) error) error {
	if client, err := c.dialClient(); err == nil {
		defer client.Close()
		return fn(client, nil)
	}
	mgr, cleanup, err := c.buildManager()
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(nil, mgr)
}

// buildManager wires a direct manager over the shared store for daemonless
// operation. The caller must invoke cleanup to release the store.
func (c *commandContext) buildManager() (*manager.Manager, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := kvstore.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open record store: %w", err)
	}
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console"})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	records := queue.NewRecordStore(store)
	client := remote.NewClientFromConfig(cfg)
	workspace := canvas.NewWorkspace(cfg, logger)
	mgr := manager.New(records, client, client, workspace, logger)
	return mgr, func() { store.Close() }, nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `easeld`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}
