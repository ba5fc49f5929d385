// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/ratelimit"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
)

// Limiter names, used in logs and as the metrics label.
const (
	limiterAuth   = "auth"
	limiterUpload = "upload"
)

// keyFunc picks the identity a limiter counts requests for.
type keyFunc func(r *http.Request) string

func clientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}

// userKey counts per authenticated user and falls back to the address.
func userKey(r *http.Request) string {
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	return clientIPKey(r)
}

// rateLimit rejects requests over the limiter's budget with 429 and a
// Retry-After header. When the limiter itself fails the request is let
// through and the failure logged; a nil limiter disables the check.
func (h *Handler) rateLimit(limiter ratelimit.Limiter, name string, key keyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromRequest(r)

			res, err := limiter.Allow(r.Context(), key(r))
			if err != nil {
				log.Err(err).Str("func", "*Handler.rateLimit").Str("limiter", name).Msg("rate limiter unavailable, request allowed")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				if h.metrics != nil {
					h.metrics.RateLimited(name)
				}
				retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(retryAfter, 1)))
				log.Info().Str("func", "*Handler.rateLimit").Str("limiter", name).Msg("rate limit exceeded")
				utils.WriteError(w, http.StatusTooManyRequests, codeRateLimited, "too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
