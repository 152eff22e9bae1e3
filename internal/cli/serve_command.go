package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"shorts-clipper/internal/devbackend"
	"shorts-clipper/internal/logging"
)

const shutdownGrace = 5 * time.Second

func runServeDev(args []string) error {
	fs := flag.NewFlagSet("serve-dev", flag.ContinueOnError)
	rt := bindRuntimeFlags(fs)
	listen := fs.String("listen", "", "listen address (default dev.listen)")
	completeAfter := fs.Duration("complete-after", -1, "time until a job completes (default dev.complete_after)")
	dataDir := fs.String("data-dir", "", "directory for uploaded videos (default: temp dir, removed on exit)")
	logLevel := fs.String("log-level", "info", "server log level")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := rt.load()
	if err != nil {
		return err
	}
	addr := defaultIfEmpty(strings.TrimSpace(*listen), cfg.DevListen)
	delay := cfg.DevCompleteAfter
	if *completeAfter >= 0 {
		delay = *completeAfter
	}

	dir := strings.TrimSpace(*dataDir)
	ephemeral := dir == ""
	if ephemeral {
		if dir, err = os.MkdirTemp("", "shorts-clipper-dev-*"); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	logger := logging.WithComponent(logging.NewJSON(os.Stderr, *logLevel), "devbackend")
	store := devbackend.NewStore(dir, delay)
	if ephemeral {
		defer func() {
			_ = store.Close()
		}()
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	server := devbackend.NewServer(devbackend.ServerConfig{Addr: addr, Store: store, Logger: logger})

	ctx, cancel := signalContext()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(l)
	}()
	fmt.Printf("dev backend listening on http://%s (jobs complete after %s)\n", l.Addr(), delay)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errCh
}
