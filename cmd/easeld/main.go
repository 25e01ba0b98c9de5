package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"easel/internal/config"
	"easel/internal/daemon"
	"easel/internal/ipc"
	"easel/internal/kvstore"
	"easel/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := kvstore.Open(cfg)
	if err != nil {
		logger.Error("open record store", logging.Error(err))
		return
	}
	defer store.Close()

	mgr := buildManager(cfg, store, logger)

	d, err := daemon.New(cfg, mgr, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		logger.Error("start ipc server", logging.Error(err))
		return
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}
	defer d.Stop()

	<-ctx.Done()
	logger.Info("easeld shutting down")
}
