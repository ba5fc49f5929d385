package service

import (
	"context"

	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// logMailer writes account links to the log instead of sending mail. It is
// the delivery used when no mail transport is wired in.
type logMailer struct {
	logger *logger.Logger
}

func NewLogMailer(logger *logger.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendVerification(_ context.Context, user models.User, link string) error {
	m.logger.Info().
		Str("func", "*logMailer.SendVerification").
		Int64("user_id", user.UserID).
		Str("email", user.Email).
		Str("link", link).
		Msg("verify email, the link expires in 24 hours")
	return nil
}

func (m *logMailer) SendPasswordReset(_ context.Context, user models.User, link string) error {
	m.logger.Info().
		Str("func", "*logMailer.SendPasswordReset").
		Int64("user_id", user.UserID).
		Str("email", user.Email).
		Str("link", link).
		Msg("password reset requested, the link expires in 1 hour")
	return nil
}
