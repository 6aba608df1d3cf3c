// Command logxd is the logx session daemon: it listens on a local
// stream socket and multiplexes many client processes onto per-client
// logx.Logger instances, reaping sessions whose owning process has
// died.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kulasekaran/logx/logxd"
)

func main() {
	socketPath := flag.String("socket", logxd.DefaultSocketPath, "unix socket path to listen on")
	reapSeconds := flag.Int("reap-interval", 5, "seconds between dead-session sweeps")
	debug := flag.Bool("debug", false, "use a development (human-readable, debug-level) zap logger")
	flag.Parse()

	log, err := newDaemonLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logxd: logger init: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	sup := logxd.NewSupervisor(*socketPath, log)
	if *reapSeconds > 0 {
		sup.Reaper.Interval = time.Duration(*reapSeconds) * time.Second
	}

	if err := sup.Listen(); err != nil {
		log.Error("listen failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("listening", zap.String("socket", *socketPath))

	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := sup.Serve(ctx); err != nil {
		log.Error("serve exited with error", zap.Error(err))
	}

	sup.Shutdown()
	log.Info("shutdown complete")
}

func newDaemonLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
