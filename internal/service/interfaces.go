package service

import (
	"context"

	"github.com/MKhiriev/go-doc-verifier/models"
)

type AuthService interface {
	// Register creates a standard account and returns it without secrets.
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	// Login checks the credentials and issues a session token.
	Login(ctx context.Context, email, password string) (models.User, models.Token, error)
	// Authenticate verifies a session token and reloads the account, so the
	// returned requester always carries the current role.
	Authenticate(ctx context.Context, token string) (models.Requester, error)
	Me(ctx context.Context, userID int64) (models.User, error)

	// VerifyEmail consumes an emailed verification token.
	VerifyEmail(ctx context.Context, token string) (models.User, error)
	// ForgotPassword mails a one hour reset link. Unknown emails succeed
	// silently.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword sets a new password using an emailed reset token.
	ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error
}

// Mailer delivers account links to the owner of the account.
type Mailer interface {
	SendVerification(ctx context.Context, user models.User, link string) error
	SendPasswordReset(ctx context.Context, user models.User, link string) error
}

type DocumentService interface {
	Upload(ctx context.Context, requester models.Requester, in models.UploadInput) (models.DocumentSummary, error)
	// List returns the requester's documents, or every document for an
	// administrator. Numbers are masked.
	List(ctx context.Context, requester models.Requester) ([]models.DocumentSummary, error)
	Delete(ctx context.Context, requester models.Requester, documentID int64) error
	Verify(ctx context.Context, requester models.Requester, documentID int64, in models.VerifyInput) (models.DocumentSummary, error)
}

// ViewService issues and resolves 30-second view grants.
type ViewService interface {
	RequestView(ctx context.Context, documentID int64, requester models.Requester) (models.ViewGrant, error)
	ResolveView(ctx context.Context, token string, requester models.Requester) (models.DocumentView, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// DocumentServiceWrapper decorates a DocumentService, for example with
// input validation.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService
}

// Recorder receives service events for metrics.
type Recorder interface {
	GrantIssued(elevated bool)
	GrantDenied(reason string)
	Resolution(outcome string)
	Upload(valid bool)
}

type nopRecorder struct{}

func (nopRecorder) GrantIssued(bool)   {}
func (nopRecorder) GrantDenied(string) {}
func (nopRecorder) Resolution(string)  {}
func (nopRecorder) Upload(bool)        {}

func recorderOrNop(r Recorder) Recorder {
	if r == nil {
		return nopRecorder{}
	}
	return r
}
