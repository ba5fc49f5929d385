package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	router.NotFound(CheckHTTPMethod)
	router.MethodNotAllowed(CheckHTTPMethod)

	router.Get("/health", h.health)
	router.Get("/api/version", h.getServerVersion)
	if h.metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	router.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit(h.authLimiter, limiterAuth, clientIPKey))
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/forgot-password", h.forgotPassword)
			r.Post("/reset-password", h.resetPassword)
		})
		r.Get("/verify-email/{token}", h.verifyEmail)
		r.Post("/logout", h.logout)
		r.With(h.auth).Get("/me", h.me)
	})

	// /api/docs is the path used by older frontends
	router.Route("/api/documents", h.documentRoutes)
	router.Route("/api/docs", h.documentRoutes)

	return router
}

func (h *Handler) documentRoutes(r chi.Router) {
	r.Use(h.auth)

	r.Get("/", h.listDocuments)
	r.With(h.rateLimit(h.uploadLimiter, limiterUpload, userKey)).Post("/upload", h.uploadDocument)
	r.Get("/view", h.resolveView)
	r.Delete("/{id}", h.deleteDocument)
	r.Patch("/{id}/verify", h.verifyDocument)
	r.Post("/{id}/view", h.requestView)
}
