package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/metrics"
	"github.com/MKhiriev/go-doc-verifier/internal/ratelimit"
	"github.com/MKhiriev/go-doc-verifier/internal/service"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// ─────────────────────────────────────────────
// Rate limiting
// ─────────────────────────────────────────────

// fakeLimiter allows the first budget calls per key.
type fakeLimiter struct {
	budget int
	err    error
	keys   []string
	seen   map[string]int
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (ratelimit.Result, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return ratelimit.Result{}, f.err
	}
	if f.seen == nil {
		f.seen = make(map[string]int)
	}
	if f.seen[key] >= f.budget {
		return ratelimit.Result{Limit: f.budget, RetryAfter: 1500 * time.Millisecond}, nil
	}
	f.seen[key]++
	return ratelimit.Result{Allowed: true, Limit: f.budget, Remaining: f.budget - f.seen[key]}, nil
}

func TestRateLimit_Auth(t *testing.T) {
	limiter := &fakeLimiter{budget: 2}
	m := metrics.New()
	router, fakes := newTestRouter(t, WithRateLimiters(limiter, nil), WithMetrics(m))
	fakes.auth.loginFn = func(context.Context, string, string) (models.User, models.Token, error) {
		return models.User{}, models.Token{}, service.ErrInvalidCredentials
	}

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.9:51234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := login()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusUnauthorized, login().Code)

	rec = login()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	assert.Equal(t, codeRateLimited, decodeError(t, rec).Error)

	assert.Equal(t, []string{"ip:203.0.113.9", "ip:203.0.113.9", "ip:203.0.113.9"}, limiter.keys)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitRejections.WithLabelValues(limiterAuth)))

	// logout and the document routes are not behind the auth limiter
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/auth/logout", "", nil).Code)
	assert.Len(t, limiter.keys, 3)

	// the password reset endpoints share the budget with login
	forgot := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", strings.NewReader(`{"email":"asha@example.com"}`))
	forgot.RemoteAddr = "203.0.113.9:51234"
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, forgot)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, limiter.keys, 4)
}

func TestRateLimit_UploadCountsPerUser(t *testing.T) {
	limiter := &fakeLimiter{budget: 1}
	router, fakes := newTestRouter(t, WithRateLimiters(nil, limiter))
	fakes.documents.uploadFn = func(context.Context, models.Requester, models.UploadInput) (models.DocumentSummary, error) {
		return models.DocumentSummary{}, nil
	}

	upload := func(token string) int {
		body, contentType := multipartUpload(t, uploadFormField, "image/png", pngBytes, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, upload(userToken))
	assert.Equal(t, http.StatusTooManyRequests, upload(userToken))
	assert.Equal(t, http.StatusCreated, upload(adminToken))
	assert.Equal(t, []string{"user:7", "user:7", "user:1"}, limiter.keys)
}

func TestRateLimit_LimiterFailureLetsRequestsThrough(t *testing.T) {
	limiter := &fakeLimiter{budget: 1, err: errors.New("redis: connection refused")}
	router, fakes := newTestRouter(t, WithRateLimiters(limiter, limiter))
	fakes.auth.registerFn = func(_ context.Context, req models.RegisterRequest) (models.User, error) {
		return req.User(), nil
	}

	for range 3 {
		rec := do(t, router, http.MethodPost, "/api/auth/register", "", strings.NewReader(`{"email":"a@b.c"}`))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestClientIPKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "ip:2001:db8::1", clientIPKey(r))

	r.RemoteAddr = "pipe"
	assert.Equal(t, "ip:pipe", clientIPKey(r))
	assert.Equal(t, "ip:pipe", userKey(r))
}

// ─────────────────────────────────────────────
// gzip
// ─────────────────────────────────────────────

func TestGZip_CompressesJSON(t *testing.T) {
	router, fakes := newTestRouter(t)
	fakes.documents.listFn = func(context.Context, models.Requester) ([]models.DocumentSummary, error) {
		return []models.DocumentSummary{{ID: 1, DocumentNumber: crypto.MaskPlaceholder}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(plain), `"count":1`)
}

func TestGZip_SkipsOtherContent(t *testing.T) {
	handler := withGZip(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngBytes)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestGZip_InflatesRequestBody(t *testing.T) {
	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err := zw.Write([]byte(`{"email":"asha@example.com"}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var got string
	handler := withGZip(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		assert.Empty(t, r.Header.Get("Content-Encoding"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/", &compressed)
	req.Header.Set("Content-Encoding", "gzip")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, `{"email":"asha@example.com"}`, got)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ─────────────────────────────────────────────
// Logging
// ─────────────────────────────────────────────

func TestWithLogging_OmitsQueryString(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&service.Services{}, &logger.Logger{Logger: zerolog.New(&buf)})

	handler := h.withTraceID(h.withLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/documents/view?viewToken=secret.grant.value", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"path":"/api/documents/view"`)
	assert.Contains(t, line, `"status":418`)
	assert.Contains(t, line, `"size":15`)
	assert.Contains(t, line, `"trace_id"`)
	assert.NotContains(t, line, "secret.grant.value")
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, 5, n)
	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Same(t, rec, w.Unwrap())
}

// ─────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want apiError
	}{
		{service.ErrDocumentNotFound, apiError{http.StatusNotFound, codeNotFound}},
		{fmt.Errorf("%w: id 4", service.ErrDocumentNotFound), apiError{http.StatusNotFound, codeNotFound}},
		{service.ErrViewQuotaExceeded, apiError{http.StatusForbidden, codeQuotaExceeded}},
		{service.ErrForbidden, apiError{http.StatusForbidden, codeForbidden}},
		{service.ErrViewTokenExpired, apiError{http.StatusUnauthorized, codeTokenExpired}},
		{service.ErrDocumentDecryption, apiError{http.StatusInternalServerError, codeDecryptionBlocked}},
		{fmt.Errorf("%w: %w", service.ErrFileStorage, errors.New("disk full")), apiError{http.StatusInternalServerError, codeInternal}},
		{ErrRequestTooLarge, apiError{http.StatusRequestEntityTooLarge, codeTooLarge}},
		{errors.New("something else"), apiError{http.StatusInternalServerError, codeInternal}},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}
