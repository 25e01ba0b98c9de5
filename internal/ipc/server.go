package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"easel/internal/api"
	"easel/internal/daemon"
	"easel/internal/logging"
	"easel/internal/queue"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Easel", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
		)
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	return logging.WithComponent(s.logger, "ipc")
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.QueueStats = status.QueueStats
	resp.LockPath = status.LockFilePath
	resp.StorePath = status.StorePath
	if status.RefreshInterval > 0 {
		resp.RefreshInterval = status.RefreshInterval.String()
	}
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via ipc")
	return nil
}

func (s *service) RefreshAll(_ RefreshRequest, resp *RefreshResponse) error {
	s.log().Debug("queue refresh requested")
	entries, err := s.daemon.RefreshAll(s.ctx)
	if err != nil {
		return err
	}
	resp.Items = api.FromEntries(entries)
	return nil
}

func (s *service) QueueList(req QueueListRequest, resp *QueueListResponse) error {
	entries, err := s.daemon.ListQueue(s.ctx)
	if err != nil {
		return err
	}
	if len(req.Statuses) > 0 {
		wanted := make(map[queue.Status]bool, len(req.Statuses))
		for _, raw := range req.Statuses {
			status := queue.Status(strings.TrimSpace(raw))
			if status.IsValid() {
				wanted[status] = true
			}
		}
		filtered := entries[:0:0]
		for _, entry := range entries {
			if wanted[entry.EntryStatus()] {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}
	resp.Items = api.FromEntries(entries)
	return nil
}

func (s *service) QueueDescribe(req QueueDescribeRequest, resp *QueueDescribeResponse) error {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return errors.New("queue describe requires an id")
	}
	entry, err := s.daemon.DescribeQueue(s.ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("queue record %s not found", id)
	}
	resp.Item = api.FromEntry(entry)
	return nil
}

func (s *service) Select(req SelectRequest, resp *SelectResponse) error {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return errors.New("select requires an id")
	}
	if err := s.daemon.Select(s.ctx, id); err != nil {
		return err
	}
	entry, err := s.daemon.DescribeQueue(s.ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("queue record %s not found", id)
	}
	resp.Item = api.FromEntry(entry)
	return nil
}

func (s *service) QueueRemove(req QueueRemoveRequest, resp *QueueRemoveResponse) error {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		return errors.New("queue remove requires an id")
	}
	if err := s.daemon.RemoveQueue(s.ctx, id); err != nil {
		return err
	}
	resp.Removed = true
	s.log().Info("queue record removed", logging.String(logging.FieldRecordID, id))
	return nil
}

func (s *service) QueueClearFailed(_ QueueClearFailedRequest, resp *QueueClearFailedResponse) error {
	removed, err := s.daemon.ClearFailed(s.ctx)
	if err != nil {
		return err
	}
	resp.Removed = removed
	s.log().Info("queue failed records cleared", logging.Int("removed_count", removed))
	return nil
}
