package http

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// tokenCookieName is the httpOnly cookie set at login.
const tokenCookieName = "token"

// auth resolves the caller from a session token and stores the requester
// in the request context. The Authorization header wins over the cookie.
//
// The auth service reloads the account for every request, so a demoted
// administrator loses elevated access on the next call.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := tokenFromRequest(r)
		if err != nil {
			writeError(w, r, "*Handler.auth", err)
			return
		}

		requester, err := h.services.AuthService.Authenticate(r.Context(), tokenString)
		if err != nil {
			writeError(w, r, "*Handler.auth", err)
			return
		}

		log := logger.FromRequest(r).GetChildLogger()
		log.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Int64("user_id", requester.UserID)
		})

		ctx := utils.WithRequester(log.WithContext(r.Context()), requester)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, err := utils.ParseBearerToken(header)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrMissingCredentials, err)
		}
		return token, nil
	}

	cookie, err := r.Cookie(tokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingCredentials
	}
	return cookie.Value, nil
}

// requesterFrom returns the requester stored by auth.
func requesterFrom(r *http.Request) (models.Requester, error) {
	requester, ok := utils.GetRequesterFromContext(r.Context())
	if !ok {
		return models.Requester{}, ErrNoRequester
	}
	return requester, nil
}
