// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/go-doc-verifier/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with UserID and CreatedAt set.
	// A duplicate email yields ErrEmailAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	// SetAdmin changes the administrator flag of the account with the given email.
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
	// SetVerified marks the account as verified without a token.
	SetVerified(ctx context.Context, email string) error

	// VerifyEmail consumes the verification token with the given digest if
	// it expires after now. Otherwise it returns ErrTokenNotFound.
	VerifyEmail(ctx context.Context, tokenDigest string, now time.Time) (models.User, error)
	// SetResetToken stores a password reset token digest, replacing any
	// earlier one.
	SetResetToken(ctx context.Context, userID int64, tokenDigest string, expires time.Time) error
	// ResetPassword replaces the password hash of the account holding a live
	// reset token and clears the token. Otherwise it returns ErrTokenNotFound.
	ResetPassword(ctx context.Context, tokenDigest, passwordHash string, now time.Time) (models.User, error)
}

// DocumentFilter narrows ListDocuments. A nil OwnerID lists every document.
type DocumentFilter struct {
	OwnerID *int64
	Status  models.DocumentStatus
}

// DocumentRepository persists documents and their view counters.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc models.Document) (models.Document, error)
	// GetDocument returns the document with its view history loaded.
	GetDocument(ctx context.Context, documentID int64) (models.Document, error)
	// ListDocuments returns documents newest first, without view history.
	ListDocuments(ctx context.Context, filter DocumentFilter) ([]models.Document, error)
	// DeleteDocument removes a document. With a non-nil ownerID only that
	// owner's document is removed; otherwise ErrDocumentNotFound is returned.
	DeleteDocument(ctx context.Context, documentID int64, ownerID *int64) (models.Document, error)
	// UpdateReview stores an administrator's decision.
	UpdateReview(ctx context.Context, documentID int64, reviewerID int64, review models.VerifyInput, at time.Time) (models.Document, error)

	// RecordView atomically checks view_count < limit, increments it, sets
	// last_viewed_at and appends a history entry. It returns the new count.
	// When the limit is reached nothing changes and ErrViewQuotaExceeded is
	// returned. A limit below 1 means no limit.
	RecordView(ctx context.Context, documentID int64, limit int, at time.Time) (int, error)
	// ResetViews sets view_count back to zero. History is kept.
	ResetViews(ctx context.Context, documentID int64) error
	// CountByStatus counts documents in the given review state.
	CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error)
}

// FileStorage keeps the uploaded files.
type FileStorage interface {
	Save(ctx context.Context, key string, contentType string, content io.Reader) error
	Load(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ErrorClassificator decides whether a failed database call is worth retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
