package logxd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"

	"go.uber.org/zap"
)

// DefaultSocketPath is the well-known path logxd listens on.
const DefaultSocketPath = "/run/logxd.sock"

// SocketMode permits non-privileged clients to connect.
const SocketMode = 0666

// Supervisor owns the unix listener, the dispatcher, and the reaper
// goroutine; it is the daemon's top-level process-scoped component.
type Supervisor struct {
	SocketPath string
	Registry   *Registry
	Dispatcher *Dispatcher
	Reaper     *Reaper
	Log        *zap.Logger

	listener net.Listener
	wg       sync.WaitGroup
}

// NewSupervisor wires a fresh Registry/Dispatcher/Reaper behind the
// given socket path. log is the daemon's own operational logger (its
// internal diagnostics, not the per-client logx instances it manages).
func NewSupervisor(socketPath string, log *zap.Logger) *Supervisor {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	reg := NewRegistry()
	return &Supervisor{
		SocketPath: socketPath,
		Registry:   reg,
		Dispatcher: NewDispatcher(reg),
		Reaper:     NewReaper(reg),
		Log:        log,
	}
}

// Listen binds the unix socket, removing any stale socket file left
// behind by a prior, uncleanly-terminated instance.
func (s *Supervisor) Listen() error {
	if err := os.Remove(s.SocketPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("logxd: removing stale socket: %w", err)
	}

	l, err := net.Listen("unix", s.SocketPath)
	if err != nil {
		return fmt.Errorf("logxd: listen %s: %w", s.SocketPath, err)
	}
	if err := os.Chmod(s.SocketPath, SocketMode); err != nil {
		l.Close()
		return fmt.Errorf("logxd: chmod %s: %w", s.SocketPath, err)
	}
	s.listener = l
	return nil
}

// Serve runs the accept loop and the reaper until ctx is cancelled or
// the listener is closed by Shutdown. Every accepted connection is
// handled by a detached worker goroutine running the dispatcher; Serve
// does not wait for in-flight workers before returning (Shutdown does).
func (s *Supervisor) Serve(ctx context.Context) error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Reaper.Run(ctx)
	}()

	// Closing the listener is what unblocks Accept once ctx is cancelled.
	go func() {
		<-ctx.Done()
		s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.Log.Warn("accept failed", zap.Error(err))
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.Dispatcher.Handle(conn)
		}()
	}
}

// Shutdown closes the listener and waits for the reaper and any
// in-flight connection workers to drain.
func (s *Supervisor) Shutdown() {
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.SocketPath)
}
