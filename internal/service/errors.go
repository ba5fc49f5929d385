package service

import "errors"

// View access.
var (
	// ErrDocumentNotFound is returned for missing documents and for
	// documents the requester may not see. Callers cannot tell the two apart.
	ErrDocumentNotFound   = errors.New("document not found")
	ErrViewQuotaExceeded  = errors.New("view limit exceeded")
	ErrViewTokenMissing   = errors.New("view token is required")
	ErrViewTokenExpired   = errors.New("view session expired")
	ErrViewTokenInvalid   = errors.New("view token is invalid")
	ErrDocumentDecryption = errors.New("document number could not be decrypted")
)

// Documents and accounts.
var (
	ErrForbidden          = errors.New("admin access required")
	ErrValidation         = errors.New("validation failed")
	ErrFileStorage        = errors.New("file storage failed")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("please log in to continue")

	ErrEmailNotVerified         = errors.New("please verify your email first")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrInvalidResetToken        = errors.New("invalid or expired password reset token")
	ErrMailDelivery             = errors.New("mail delivery failed")

	ErrTokenCreationFailed = errors.New("token creation failed")
)
