// Package grpc exposes the standard gRPC health service. Load balancers
// and orchestrators query it on the gRPC address; the status follows the
// database ping.
package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "docverifier.DocumentVerifier"

const pingTimeout = 2 * time.Second

// Handler is the root gRPC transport handler.
type Handler struct {
	health *health.Server
	pinger store.Pinger

	logger *logger.Logger
}

// NewHandler returns a handler reporting SERVING until the first failed
// ping. pinger may be nil, in which case the status never changes.
func NewHandler(pinger store.Pinger, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	h := &Handler{
		health: health.NewServer(),
		pinger: pinger,
		logger: logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_SERVING)
	return h
}

// Register attaches the health service to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Check pings the database once and updates the reported status.
func (h *Handler) Check(ctx context.Context) {
	if h.pinger == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.pinger.PingContext(ctx); err != nil {
		h.logger.Err(err).Str("func", "*grpc.Handler.Check").Msg("database ping failed")
		h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
		return
	}
	h.setStatus(healthpb.HealthCheckResponse_SERVING)
}

// Watch runs Check every interval until ctx is done.
func (h *Handler) Watch(ctx context.Context, interval time.Duration) {
	if h.pinger == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown reports NOT_SERVING to every watcher so clients drain first.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
