package client

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/adapter"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/tui"
)

const versionProbeTimeout = 3 * time.Second

type App struct {
	server adapter.ServerAdapter
	ui     UI
	logger *logger.Logger
}

var _ Client = (*App)(nil)

func NewApp(server adapter.ServerAdapter, ui UI, logger *logger.Logger) (*App, error) {
	if server == nil || ui == nil {
		return nil, errors.New("client: server adapter and ui are required")
	}
	return &App{server: server, ui: ui, logger: logger}, nil
}

// Run blocks until the user quits or the process receives SIGINT/SIGTERM.
// Quitting from the UI is a normal exit.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	a.checkServer(ctx)

	err := a.ui.Run(ctx)
	switch {
	case err == nil, errors.Is(err, tui.ErrUserQuit), errors.Is(err, context.Canceled):
		a.logger.Info().Msg("client stopped")
		return nil
	default:
		a.logger.Err(err).Str("func", "*App.run").Msg("ui stopped with error")
		return err
	}
}

// checkServer logs the server build. An unreachable server is not fatal,
// the login page reports it to the user.
func (a *App) checkServer(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	info, err := a.server.Version(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Str("func", "*App.checkServer").Msg("server version is unavailable")
		return
	}
	a.logger.Info().
		Str("server_version", info.Version).
		Str("server_commit", info.Commit).
		Msg("connected to server")
}
