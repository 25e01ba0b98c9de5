package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easel/internal/config"
	"easel/internal/daemon"
	"easel/internal/ipc"
	"easel/internal/logging"
	"easel/internal/manager"
	"easel/internal/queue"
	"easel/internal/remote"
	"easel/internal/testsupport"
)

type stubImageClient struct{}

func (stubImageClient) SubmitBatchGenerate(context.Context, remote.GenerateSpec) (string, error) {
	return "batches/cli-test", nil
}

func (stubImageClient) SubmitBatchEdit(context.Context, remote.EditSpec) (string, error) {
	return "batches/cli-test", nil
}

func (stubImageClient) GetBatchStatus(context.Context, string) (remote.BatchStatus, error) {
	return remote.BatchStatus{State: queue.BatchStateSucceeded}, nil
}

func (stubImageClient) GetBatchResults(context.Context, string) ([]queue.Payload, error) {
	return []queue.Payload{{MimeType: "image/png", Data: "aGVsbG8="}}, nil
}

type stubVideoClient struct{}

func (stubVideoClient) StartVideoGeneration(context.Context, remote.VideoSpec) (string, error) {
	return "operations/cli-test", nil
}

func (stubVideoClient) GetOperationStatus(context.Context, string) (remote.OperationStatus, error) {
	return remote.OperationStatus{State: remote.OperationStateRunning, Progress: 0.5}, nil
}

func (stubVideoClient) GetOperationResult(context.Context, string) (remote.VideoResult, error) {
	return remote.VideoResult{Video: queue.Payload{MimeType: "video/mp4", Data: "dmlkZW8="}}, nil
}

type noopCanvas struct{}

func (noopCanvas) LoadImages(context.Context, []queue.Payload) error { return nil }
func (noopCanvas) LoadVideo(context.Context, queue.Payload) error    { return nil }

type cliTestEnv struct {
	cfg        *config.Config
	manager    *manager.Manager
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	cancel     context.CancelFunc
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "easel", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	records := testsupport.MustOpenRecords(t, cfg)
	logger := logging.NewNop()
	mgr := manager.New(records, stubImageClient{}, stubVideoClient{}, noopCanvas{}, logger)

	d, err := daemon.New(cfg, mgr, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	socketPath := filepath.Join(cfg.Paths.LogDir, "cli.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logger)
	if err != nil {
		cancel()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env := &cliTestEnv{
		cfg:        cfg,
		manager:    mgr,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return env
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\ncanvas_dir = %q\napi_bind = %q\n\n[remote]\napi_key = %q\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Paths.CanvasDir,
		cfg.Paths.APIBind,
		cfg.Remote.APIKey,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
