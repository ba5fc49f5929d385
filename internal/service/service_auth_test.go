package service

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-doc-verifier/internal/config"
	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/mock"
	"github.com/MKhiriev/go-doc-verifier/internal/store"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/internal/validators"
	"github.com/MKhiriev/go-doc-verifier/models"
)

var testAppConfig = config.App{
	TokenSignKey:  testSignKey,
	TokenIssuer:   testIssuer,
	TokenDuration: time.Hour,
	PublicURL:     "https://docs.example.com/",
}

func newTestAuthService(users store.UserRepository, opts ...AuthOption) AuthService {
	return NewAuthService(users, crypto.NewPasswordHasher(4), validators.NewDocumentValidator(0), testAppConfig, logger.Nop(), opts...)
}

// fakeMailer records the links it was asked to deliver.
type fakeMailer struct {
	mu            sync.Mutex
	verifications []string
	resets        []string
	err           error
}

func (m *fakeMailer) SendVerification(_ context.Context, _ models.User, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verifications = append(m.verifications, link)
	return m.err
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, _ models.User, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, link)
	return m.err
}

func lastToken(t *testing.T, links []string) string {
	t.Helper()
	require.NotEmpty(t, links)
	return path.Base(links[len(links)-1])
}

// registerVerified creates an account that can log in right away.
func registerVerified(t *testing.T, svc AuthService, users store.UserRepository, req models.RegisterRequest) models.User {
	t.Helper()
	ctx := context.Background()
	created, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NoError(t, users.SetVerified(ctx, created.Email))
	return created
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	mailer := &fakeMailer{}
	svc := newTestAuthService(users, WithMailer(mailer))
	ctx := context.Background()

	created, err := svc.Register(ctx, models.RegisterRequest{Name: " Asha ", Email: " Asha@Example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", created.Email)
	assert.Equal(t, "Asha", created.Name)
	assert.False(t, created.IsAdmin)
	assert.False(t, created.IsVerified)
	assert.Empty(t, created.Password)
	assert.Empty(t, created.PasswordHash)
	assert.Empty(t, created.VerificationToken)

	stored, err := users.FindUserByEmail(ctx, "asha@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)

	require.Len(t, mailer.verifications, 1)
	link := mailer.verifications[0]
	assert.True(t, strings.HasPrefix(link, "https://docs.example.com/api/auth/verify-email/"), link)
	token := lastToken(t, mailer.verifications)
	assert.NotEqual(t, token, stored.VerificationToken, "only the digest is stored")

	_, _, err = svc.Login(ctx, "asha@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	verified, err := svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Equal(t, created.UserID, verified.UserID)

	_, err = svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidVerificationToken, "tokens are single use")

	user, session, err := svc.Login(ctx, "ASHA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, user.UserID)
	assert.Empty(t, user.PasswordHash)
	assert.NotEmpty(t, session.SignedString)

	requester, err := svc.Authenticate(ctx, session.SignedString)
	require.NoError(t, err)
	assert.Equal(t, models.Requester{UserID: created.UserID}, requester)

	me, err := svc.Me(ctx, created.UserID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", me.Email)
}

func TestAuthService_RegisterErrors(t *testing.T) {
	svc := newTestAuthService(store.NewMemoryUserRepository(logger.Nop()))
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     models.RegisterRequest
		wantErr []error
	}{
		{
			name:    "duplicate email",
			req:     models.RegisterRequest{Name: "Other", Email: "ASHA@example.com", Password: "another-pass"},
			wantErr: []error{ErrUserAlreadyExists},
		},
		{
			name:    "bad email",
			req:     models.RegisterRequest{Name: "Asha", Email: "not-an-email", Password: "correct-horse"},
			wantErr: []error{ErrValidation, validators.ErrInvalidEmail},
		},
		{
			name:    "short password and no name",
			req:     models.RegisterRequest{Email: "new@example.com", Password: "short"},
			wantErr: []error{ErrValidation, validators.ErrEmptyName, validators.ErrPasswordTooWeak},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.req)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestAuthService_LoginIsOpaque(t *testing.T) {
	svc := newTestAuthService(store.NewMemoryUserRepository(logger.Nop()))
	ctx := context.Background()

	// A wrong password is reported before the verification state.
	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, errWrongPassword := svc.Login(ctx, "asha@example.com", "wrong-horse")
	_, _, errUnknownEmail := svc.Login(ctx, "nobody@example.com", "correct-horse")
	_, _, errEmpty := svc.Login(ctx, "", "")

	assert.ErrorIs(t, errWrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, ErrInvalidCredentials)
	assert.ErrorIs(t, errEmpty, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateReflectsCurrentRole(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	svc := newTestAuthService(users)
	ctx := context.Background()

	created := registerVerified(t, svc, users, models.RegisterRequest{Name: "Root", Email: "root@example.com", Password: "correct-horse"})
	_, token, err := svc.Login(ctx, "root@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, users.SetAdmin(ctx, "root@example.com", true))
	requester, err := svc.Authenticate(ctx, token.SignedString)
	require.NoError(t, err)
	assert.True(t, requester.IsAdmin)

	require.NoError(t, users.SetAdmin(ctx, "root@example.com", false))
	requester, err = svc.Authenticate(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, models.Requester{UserID: created.UserID}, requester)
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	svc := newTestAuthService(users)
	ctx := context.Background()

	unknownUser, err := utils.GenerateJWTToken(testIssuer, 404, time.Hour, testSignKey)
	require.NoError(t, err)
	otherIssuer, err := utils.GenerateJWTToken("someone-else", 1, time.Hour, testSignKey)
	require.NoError(t, err)

	created, err := svc.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	grant, err := viewTokens{signKey: testSignKey, issuer: testIssuer, now: time.Now}.
		issue(1, models.Requester{UserID: created.UserID})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"view grant":   grant,
		"empty":        "",
		"garbage":      "abc.def.ghi",
		"unknown user": unknownUser.SignedString,
		"other issuer": otherIssuer.SignedString,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}

func TestAuthService_RepositoryFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)
	hasher := mock.NewMockPasswordHasher(ctrl)
	svc := NewAuthService(users, hasher, validators.NewDocumentValidator(0), testAppConfig, logger.Nop())
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	hasher.EXPECT().Hash("correct-horse").Return("hashed", nil)
	users.EXPECT().CreateUser(ctx, gomock.Cond(func(u models.User) bool {
		return u.Name == "Asha" && u.Email == "asha@example.com" && u.PasswordHash == "hashed" &&
			!u.IsVerified && len(u.VerificationToken) == 64 && !u.VerificationExpires.IsZero()
	})).Return(models.User{}, dbErr)
	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrUserAlreadyExists)

	users.EXPECT().FindUserByEmail(ctx, "asha@example.com").Return(models.User{}, dbErr)
	_, _, err = svc.Login(ctx, "asha@example.com", "correct-horse")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)

	users.EXPECT().FindUserByEmail(ctx, "asha@example.com").Return(models.User{UserID: 3, PasswordHash: "hashed"}, nil)
	hasher.EXPECT().Compare("hashed", "wrong").Return(crypto.ErrPasswordMismatch)
	_, _, err = svc.Login(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	users.EXPECT().FindUserByID(ctx, int64(3)).Return(models.User{}, store.ErrNoUserWasFound)
	_, err = svc.Me(ctx, 3)
	assert.ErrorIs(t, err, ErrUnauthorized)

	users.EXPECT().VerifyEmail(ctx, gomock.Any(), gomock.Any()).Return(models.User{}, dbErr)
	_, err = svc.VerifyEmail(ctx, "token")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrInvalidVerificationToken)

	users.EXPECT().FindUserByEmail(ctx, "asha@example.com").Return(models.User{UserID: 3}, nil)
	users.EXPECT().SetResetToken(ctx, int64(3), gomock.Any(), gomock.Any()).Return(dbErr)
	assert.ErrorIs(t, svc.ForgotPassword(ctx, "asha@example.com"), dbErr)

	hasher.EXPECT().Hash("new-password").Return("new-hash", nil)
	users.EXPECT().ResetPassword(ctx, crypto.TokenDigest("token"), "new-hash", gomock.Any()).Return(models.User{}, dbErr)
	err = svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "token", Password: "new-password"})
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_VerificationExpires(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	mailer := &fakeMailer{}
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(users, WithMailer(mailer), WithAuthClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	token := lastToken(t, mailer.verifications)

	now = now.Add(24*time.Hour + time.Second)
	_, err = svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)

	_, err = svc.VerifyEmail(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)
	_, err = svc.VerifyEmail(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestAuthService_RegisterSurvivesMailFailure(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	svc := newTestAuthService(users, WithMailer(&fakeMailer{err: errors.New("smtp down")}))
	ctx := context.Background()

	created, err := svc.Register(ctx, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = users.FindUserByID(ctx, created.UserID)
	assert.NoError(t, err)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	mailer := &fakeMailer{}
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(users, WithMailer(mailer), WithAuthClock(func() time.Time { return now }))
	ctx := context.Background()

	registerVerified(t, svc, users, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})

	require.NoError(t, svc.ForgotPassword(ctx, " ASHA@example.com "))
	require.Len(t, mailer.resets, 1)
	assert.True(t, strings.HasPrefix(mailer.resets[0], "https://docs.example.com/reset-password/"), mailer.resets[0])
	first := lastToken(t, mailer.resets)

	require.NoError(t, svc.ForgotPassword(ctx, "asha@example.com"))
	second := lastToken(t, mailer.resets)
	require.NotEqual(t, first, second)

	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: first, Password: "new-password"})
	assert.ErrorIs(t, err, ErrInvalidResetToken, "a newer request replaces the token")

	require.NoError(t, svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: second, Password: "new-password"}))

	_, _, err = svc.Login(ctx, "asha@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "asha@example.com", "new-password")
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: second, Password: "newer-password"})
	assert.ErrorIs(t, err, ErrInvalidResetToken, "tokens are single use")
}

func TestAuthService_ResetTokenExpiresAfterAnHour(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	mailer := &fakeMailer{}
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestAuthService(users, WithMailer(mailer), WithAuthClock(func() time.Time { return now }))
	ctx := context.Background()

	registerVerified(t, svc, users, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	require.NoError(t, svc.ForgotPassword(ctx, "asha@example.com"))

	now = now.Add(time.Hour)
	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: lastToken(t, mailer.resets), Password: "new-password"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ForgotPasswordInputs(t *testing.T) {
	users := store.NewMemoryUserRepository(logger.Nop())
	mailer := &fakeMailer{}
	svc := newTestAuthService(users, WithMailer(mailer))
	ctx := context.Background()

	assert.NoError(t, svc.ForgotPassword(ctx, "nobody@example.com"), "unknown emails are not revealed")
	assert.Empty(t, mailer.resets)

	err := svc.ForgotPassword(ctx, "not-an-email")
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validators.ErrInvalidEmail)

	err = svc.ResetPassword(ctx, models.ResetPasswordRequest{Token: "", Password: "short"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, validators.ErrMissingToken)
	assert.ErrorIs(t, err, validators.ErrPasswordTooWeak)

	registerVerified(t, svc, users, models.RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "correct-horse"})
	mailer.err = errors.New("smtp down")
	assert.ErrorIs(t, svc.ForgotPassword(ctx, "asha@example.com"), ErrMailDelivery)
}
