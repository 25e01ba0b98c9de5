package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"easel/internal/canvas"
	"easel/internal/daemon"
	"easel/internal/ipc"
	"easel/internal/logging"
	"easel/internal/manager"
	"easel/internal/queue"
	"easel/internal/remote"
	"easel/internal/testsupport"
)

type imageClientStub struct{}

func (imageClientStub) SubmitBatchGenerate(context.Context, remote.GenerateSpec) (string, error) {
	return "batches/b1", nil
}

func (imageClientStub) SubmitBatchEdit(context.Context, remote.EditSpec) (string, error) {
	return "batches/b1", nil
}

func (imageClientStub) GetBatchStatus(context.Context, string) (remote.BatchStatus, error) {
	return remote.BatchStatus{State: queue.BatchStateSucceeded}, nil
}

func (imageClientStub) GetBatchResults(context.Context, string) ([]queue.Payload, error) {
	return []queue.Payload{{MimeType: "image/png", Data: "aW1n"}}, nil
}

type videoClientStub struct{}

func (videoClientStub) StartVideoGeneration(context.Context, remote.VideoSpec) (string, error) {
	return "operations/op1", nil
}

func (videoClientStub) GetOperationStatus(context.Context, string) (remote.OperationStatus, error) {
	return remote.OperationStatus{State: remote.OperationStateRunning, Progress: 0.5}, nil
}

func (videoClientStub) GetOperationResult(context.Context, string) (remote.VideoResult, error) {
	return remote.VideoResult{Video: queue.Payload{MimeType: "video/mp4", Data: "dmlk"}}, nil
}

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	records := testsupport.MustOpenRecords(t, cfg)
	logger := logging.NewNop()
	mgr := manager.New(records, imageClientStub{}, videoClientStub{}, canvas.NewWorkspace(cfg, logger), logger)
	d, err := daemon.New(cfg, mgr, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(t.TempDir(), "easeld.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.Running {
		t.Fatal("daemon must report not running before Start")
	}
	if !strings.HasSuffix(status.StorePath, "records.db") {
		t.Fatalf("unexpected store path: %s", status.StorePath)
	}

	imageID, err := mgr.CreateAndSubmitImage(ctx, queue.ImageRequest{Prompt: "a lighthouse"})
	if err != nil {
		t.Fatalf("CreateAndSubmitImage: %v", err)
	}
	videoID, err := mgr.CreateAndSubmitVideo(ctx, queue.VideoRequest{Prompt: "waves"})
	if err != nil {
		t.Fatalf("CreateAndSubmitVideo: %v", err)
	}

	list, err := client.QueueList(nil)
	if err != nil {
		t.Fatalf("QueueList failed: %v", err)
	}
	if len(list.Items) != 2 {
		t.Fatalf("expected 2 queue items, got %d", len(list.Items))
	}

	submitted, err := client.QueueList([]string{string(queue.StatusSubmitted)})
	if err != nil {
		t.Fatalf("QueueList filtered failed: %v", err)
	}
	if len(submitted.Items) != 2 {
		t.Fatalf("expected 2 submitted items, got %d", len(submitted.Items))
	}

	describe, err := client.QueueDescribe(imageID)
	if err != nil {
		t.Fatalf("QueueDescribe failed: %v", err)
	}
	if describe.Item.ID != imageID || describe.Item.Kind != string(queue.KindGenerate) {
		t.Fatalf("unexpected describe response: %#v", describe.Item)
	}
	if _, err := client.QueueDescribe("missing"); err == nil {
		t.Fatal("describe of missing record must error")
	}

	selected, err := client.Select(imageID)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if selected.Item.Status != string(queue.StatusSucceeded) || selected.Item.ResultCount != 1 {
		t.Fatalf("unexpected select response: %#v", selected.Item)
	}

	refreshed, err := client.RefreshAll()
	if err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	for _, item := range refreshed.Items {
		if item.ID == videoID && item.Status != string(queue.StatusProcessing) {
			t.Fatalf("video record must advance to processing, got %q", item.Status)
		}
	}

	record, err := records.GetVideo(context.Background(), videoID)
	if err != nil || record == nil {
		t.Fatalf("video record missing: %v", err)
	}
	record.Status = queue.StatusFailed
	record.ErrorMessage = "blocked"
	if err := records.SaveVideo(context.Background(), record); err != nil {
		t.Fatalf("SaveVideo: %v", err)
	}

	cleared, err := client.QueueClearFailed()
	if err != nil {
		t.Fatalf("QueueClearFailed failed: %v", err)
	}
	if cleared.Removed != 1 {
		t.Fatalf("expected 1 removal, got %d", cleared.Removed)
	}

	removed, err := client.QueueRemove(imageID)
	if err != nil || !removed.Removed {
		t.Fatalf("QueueRemove failed: %v", err)
	}
	final, err := client.QueueList(nil)
	if err != nil {
		t.Fatalf("QueueList failed: %v", err)
	}
	if len(final.Items) != 0 {
		t.Fatalf("expected empty queue, got %d items", len(final.Items))
	}

	stop, err := client.Stop()
	if err != nil || !stop.Stopped {
		t.Fatalf("Stop RPC failed: %v", err)
	}
}
