package handler

import (
	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/handler/grpc"
	"github.com/MKhiriev/go-doc-verifier/internal/handler/http"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/service"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers builds a handler for every configured transport. pinger backs
// the health checks of both; it may be nil.
func NewHandlers(services *service.Services, cfg config.Server, pinger store.Pinger, logger *logger.Logger, opts ...http.Option) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		opts = append([]http.Option{http.WithSecureCookies(cfg.SecureCookies)}, opts...)
		if pinger != nil {
			opts = append(opts, http.WithPinger(pinger))
		}
		handlers.HTTP = http.NewHandler(services, logger, opts...)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(pinger, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
