package cli

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"shorts-clipper/internal/clipapi"
	"shorts-clipper/internal/config"
	"shorts-clipper/internal/logging"
)

type runtimeFlags struct {
	backend    *string
	configPath *string
}

func bindRuntimeFlags(fs *flag.FlagSet) runtimeFlags {
	return runtimeFlags{
		backend:    fs.String("backend", "", "backend base URL (default from config, "+config.DefaultBackendURL+")"),
		configPath: fs.String("config", "", "config file path (default clipper.yaml in . or ./config)"),
	}
}

func (rf runtimeFlags) load() (config.Config, error) {
	return config.Load(config.LoadOptions{
		ConfigFile: strings.TrimSpace(*rf.configPath),
		BackendURL: strings.TrimSpace(*rf.backend),
	})
}

// commandLogger writes to log.file when set, stderr otherwise.
func commandLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile != "" {
		return logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	}
	return logging.New(os.Stderr, cfg.LogLevel), io.NopCloser(nil), nil
}

func newClient(cfg config.Config, logger *slog.Logger) *clipapi.Client {
	return clipapi.New(cfg.BackendURL, clipapi.Options{
		Timeout: cfg.HTTPTimeout,
		Logger:  logging.WithComponent(logger, "clipapi"),
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
