package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	myGRPC "github.com/MKhiriev/go-doc-verifier/internal/handler/grpc"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
)

// healthCheckInterval is how often the gRPC health status is refreshed.
const healthCheckInterval = 15 * time.Second

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener
	shutdownTimeout time.Duration

	watchCtx  context.Context
	stopWatch context.CancelFunc
	logger    *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	lis, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errListen, err)
	}

	srv := grpc.NewServer()
	handler.Register(srv)

	watchCtx, stopWatch := context.WithCancel(context.Background())

	return &grpcServer{
		handler:         handler,
		server:          srv,
		gRPCNetListener: lis,
		shutdownTimeout: cfg.ShutdownTimeout,
		watchCtx:        watchCtx,
		stopWatch:       stopWatch,
		logger:          logger,
	}, nil
}

func (g *grpcServer) RunServer() {
	go g.handler.Watch(g.watchCtx, healthCheckInterval)

	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Err(err).Str("func", "*grpcServer.RunServer").Msg("gRPC server Serve")
	}
}

// Shutdown flips the health status first so health checks see the drain, then
// stops gracefully. Connections still open after the timeout are cut.
func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.stopWatch()
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(g.shutdownTimeout):
		g.logger.Warn().Str("func", "*grpcServer.Shutdown").Msg("graceful stop timed out, forcing")
		g.server.Stop()
	}
}
