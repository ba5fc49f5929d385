package http

import (
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/metrics"
	"github.com/MKhiriev/go-doc-verifier/internal/ratelimit"
	"github.com/MKhiriev/go-doc-verifier/internal/service"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
)

// defaultMaxBodySize bounds multipart bodies when no upload limit is set.
const defaultMaxBodySize = 10 << 20

type Handler struct {
	services *service.Services

	authLimiter   ratelimit.Limiter
	uploadLimiter ratelimit.Limiter

	metrics       *metrics.Metrics
	pinger        store.Pinger
	secureCookies bool
	maxBodySize   int64

	logger *logger.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithRateLimiters limits the auth routes per client address and uploads
// per user. A nil limiter leaves its routes unlimited.
func WithRateLimiters(auth, upload ratelimit.Limiter) Option {
	return func(h *Handler) {
		h.authLimiter = auth
		h.uploadLimiter = upload
	}
}

// WithMetrics exposes m at /metrics and counts rate limit rejections.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithPinger makes /health report the state of p.
func WithPinger(p store.Pinger) Option {
	return func(h *Handler) {
		h.pinger = p
	}
}

// WithSecureCookies sets the Secure flag on the session cookie.
func WithSecureCookies(secure bool) Option {
	return func(h *Handler) {
		h.secureCookies = secure
	}
}

// WithMaxUploadSize bounds the size of an accepted upload file.
func WithMaxUploadSize(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services:    services,
		maxBodySize: defaultMaxBodySize,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Msg("http handler created")
	return h
}
