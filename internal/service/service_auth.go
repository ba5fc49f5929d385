package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/internal/validators"
	"github.com/MKhiriev/go-doc-verifier/models"
)

const (
	verificationTTL = 24 * time.Hour
	resetTTL        = time.Hour
)

// authService handles registration, password login and session tokens.
type authService struct {
	userRepository store.UserRepository
	hasher         crypto.PasswordHasher
	validator      validators.Validator
	mailer         Mailer
	now            func() time.Time

	// publicURL is the base of emailed links.
	publicURL string

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	tokenDuration time.Duration

	logger *logger.Logger
}

// AuthOption configures NewAuthService.
type AuthOption func(*authService)

// WithMailer replaces the log mailer.
func WithMailer(m Mailer) AuthOption {
	return func(a *authService) {
		if m != nil {
			a.mailer = m
		}
	}
}

// WithAuthClock sets the time source of token expiry checks.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(a *authService) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAuthService constructs an AuthService. The returned service is safe
// for concurrent use; all state is read-only after construction.
func NewAuthService(userRepository store.UserRepository, hasher crypto.PasswordHasher, validator validators.Validator, cfg config.App, logger *logger.Logger, opts ...AuthOption) AuthService {
	a := &authService{
		userRepository: userRepository,
		hasher:         hasher,
		validator:      validator,
		mailer:         NewLogMailer(logger),
		now:            time.Now,
		publicURL:      strings.TrimRight(cfg.PublicURL, "/"),
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register creates a standard, unverified account and mails the
// verification link. Emails are compared case-insensitively. A failed
// delivery is logged and does not undo the registration.
//
// Errors:
//   - ErrValidation wrapping the validator sentinels for bad input.
//   - ErrUserAlreadyExists when the email is taken.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := a.validator.Validate(ctx, req); err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
		return models.User{}, err
	}

	token, digest, err := crypto.NewAccountToken()
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	user := req.User()
	user.Password = ""
	user.PasswordHash = hash
	user.VerificationToken = digest
	user.VerificationExpires = a.now().UTC().Add(verificationTTL)

	created, err := a.userRepository.CreateUser(ctx, user)
	switch {
	case errors.Is(err, store.ErrEmailAlreadyExists):
		return models.User{}, ErrUserAlreadyExists
	case err != nil:
		log.Err(err).Str("func", "*authService.Register").Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Str("func", "*authService.Register").Int64("user_id", created.UserID).Msg("user registered")

	if err = a.mailer.SendVerification(ctx, created.Public(), a.link("api/auth/verify-email", token)); err != nil {
		log.Err(err).Str("func", "*authService.Register").Int64("user_id", created.UserID).Msg("verification mail was not sent")
	}
	return created.Public(), nil
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (a *authService) Login(ctx context.Context, email, password string) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, models.Token{}, ErrInvalidCredentials
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return models.User{}, models.Token{}, ErrInvalidCredentials
	case err != nil:
		log.Err(err).Str("func", "*authService.Login").Msg("user search by email failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if err = a.hasher.Compare(user.PasswordHash, password); err != nil {
		log.Info().Str("func", "*authService.Login").Int64("user_id", user.UserID).Msg("wrong password")
		return models.User{}, models.Token{}, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return models.User{}, models.Token{}, ErrEmailNotVerified
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return user.Public(), token, nil
}

func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.Requester, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "*authService.Authenticate").Msg("session token rejected")
		return models.Requester{}, ErrUnauthorized
	}

	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return models.Requester{}, ErrUnauthorized
	case err != nil:
		return models.Requester{}, fmt.Errorf("error loading user: %w", err)
	}

	return models.Requester{UserID: user.UserID, IsAdmin: user.IsAdmin}, nil
}

func (a *authService) Me(ctx context.Context, userID int64) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return models.User{}, ErrUnauthorized
	case err != nil:
		return models.User{}, fmt.Errorf("error loading user: %w", err)
	}
	return user.Public(), nil
}

func (a *authService) VerifyEmail(ctx context.Context, token string) (models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.User{}, ErrInvalidVerificationToken
	}

	user, err := a.userRepository.VerifyEmail(ctx, crypto.TokenDigest(token), a.now().UTC())
	switch {
	case errors.Is(err, store.ErrTokenNotFound):
		return models.User{}, ErrInvalidVerificationToken
	case err != nil:
		return models.User{}, fmt.Errorf("error verifying email: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "*authService.VerifyEmail").Int64("user_id", user.UserID).Msg("email verified")
	return user.Public(), nil
}

// ForgotPassword stores a fresh reset token, replacing any earlier one, and
// mails the link. An unknown email is not an error so the endpoint does not
// reveal which accounts exist.
func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	email = normalizeEmail(email)
	if err := a.validator.Validate(ctx, models.RegisterRequest{Email: email}, validators.FieldEmail); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		log.Debug().Str("func", "*authService.ForgotPassword").Msg("reset requested for unknown email")
		return nil
	case err != nil:
		return fmt.Errorf("user search by email failed: %w", err)
	}

	token, digest, err := crypto.NewAccountToken()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}
	if err = a.userRepository.SetResetToken(ctx, user.UserID, digest, a.now().UTC().Add(resetTTL)); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err = a.mailer.SendPasswordReset(ctx, user.Public(), a.link("reset-password", token)); err != nil {
		log.Err(err).Str("func", "*authService.ForgotPassword").Int64("user_id", user.UserID).Msg("reset mail was not sent")
		return fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	req.Token = strings.TrimSpace(req.Token)
	if err := a.validator.Validate(ctx, req); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return err
	}

	user, err := a.userRepository.ResetPassword(ctx, crypto.TokenDigest(req.Token), hash, a.now().UTC())
	switch {
	case errors.Is(err, store.ErrTokenNotFound):
		return ErrInvalidResetToken
	case err != nil:
		return fmt.Errorf("error resetting password: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "*authService.ResetPassword").Int64("user_id", user.UserID).Msg("password reset")
	return nil
}

// link builds <publicURL>/<route>/<token>.
func (a *authService) link(route, token string) string {
	return a.publicURL + "/" + route + "/" + url.PathEscape(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
