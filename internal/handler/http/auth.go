package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.register", fmt.Errorf("%w: %w", ErrInvalidRequestBody, err))
		return
	}

	user, err := h.services.AuthService.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, "*Handler.register", err)
		return
	}

	logger.FromRequest(r).Info().Str("func", "*Handler.register").Int64("user_id", user.UserID).Msg("user registered")
	utils.WriteJSON(w, models.AuthResponse{
		User:    user,
		Message: "Registration successful. Please check your email for verification.",
	}, http.StatusCreated)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.AuthService.VerifyEmail(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, r, "*Handler.verifyEmail", err)
		return
	}

	utils.WriteJSON(w, models.AuthResponse{
		User:    user,
		Message: "Email verified successfully. You can now login.",
	}, http.StatusOK)
}

// forgotPassword answers the same way for known and unknown emails.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.forgotPassword", fmt.Errorf("%w: %w", ErrInvalidRequestBody, err))
		return
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, "*Handler.forgotPassword", err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{
		Success: true,
		Message: "If the account exists, a password reset link has been sent",
	}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.resetPassword", fmt.Errorf("%w: %w", ErrInvalidRequestBody, err))
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, "*Handler.resetPassword", err)
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Success: true, Message: "Password has been reset"}, http.StatusOK)
}

// login answers with the user and hands the session token out twice: as
// an httpOnly cookie for browsers and in the Authorization header for the
// terminal client.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, "*Handler.login", fmt.Errorf("%w: %w", ErrInvalidRequestBody, err))
		return
	}

	user, token, err := h.services.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, "*Handler.login", err)
		return
	}

	expires := time.Now().Add(24 * time.Hour)
	if token.ExpiresAt != nil {
		expires = token.ExpiresAt.Time
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token.SignedString,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set("Authorization", "Bearer "+token.SignedString)

	utils.WriteJSON(w, models.AuthResponse{User: user}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	utils.WriteJSON(w, models.MessageResponse{Success: true, Message: "Logged out successfully"}, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	requester, err := requesterFrom(r)
	if err != nil {
		writeError(w, r, "*Handler.me", err)
		return
	}

	user, err := h.services.AuthService.Me(r.Context(), requester.UserID)
	if err != nil {
		writeError(w, r, "*Handler.me", err)
		return
	}

	utils.WriteJSON(w, models.AuthResponse{User: user}, http.StatusOK)
}
