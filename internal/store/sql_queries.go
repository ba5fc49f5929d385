package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-doc-verifier/models"
)

const (
	usersTable         = "users"
	documentsTable     = "documents"
	documentViewsTable = "document_views"
)

var userColumns = []string{
	"user_id", "email", "name", "password_hash", "is_admin", "is_verified", "created_at",
}

var documentColumns = []string{
	"id", "user_id", "document_type", "document_number", "name", "date_of_birth", "gender",
	"storage_key", "original_file_name", "file_size", "mime_type", "checksum",
	"validation_errors", "view_count", "last_viewed_at",
	"status", "admin_notes", "verified_by", "verified_at",
	"created_at", "updated_at",
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

// users

func buildInsertUserQuery(b sq.StatementBuilderType, user models.User, now time.Time) (string, []any, error) {
	return b.Insert(usersTable).
		Columns(
			"email", "name", "password_hash", "is_admin", "is_verified",
			"verification_token", "verification_expires", "created_at",
		).
		Values(
			user.Email, user.Name, user.PasswordHash, user.IsAdmin, user.IsVerified,
			nullableString(user.VerificationToken), nullableTime(user.VerificationExpires), now,
		).
		Suffix(returning(userColumns)).
		ToSql()
}

func buildSelectUserQuery(b sq.StatementBuilderType, where sq.Eq) (string, []any, error) {
	return b.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()
}

func buildSetAdminQuery(b sq.StatementBuilderType, email string, isAdmin bool) (string, []any, error) {
	return b.Update(usersTable).
		Set("is_admin", isAdmin).
		Where(sq.Eq{"email": email}).
		ToSql()
}

// buildVerifyEmailQuery consumes a live verification token. A used or
// expired token matches no row.
func buildVerifyEmailQuery(b sq.StatementBuilderType, tokenDigest string, now time.Time) (string, []any, error) {
	return b.Update(usersTable).
		Set("is_verified", true).
		Set("verification_token", nil).
		Set("verification_expires", nil).
		Where(sq.Eq{"verification_token": tokenDigest}).
		Where(sq.Gt{"verification_expires": now}).
		Suffix(returning(userColumns)).
		ToSql()
}

func buildSetResetTokenQuery(b sq.StatementBuilderType, userID int64, tokenDigest string, expires time.Time) (string, []any, error) {
	return b.Update(usersTable).
		Set("reset_password_token", tokenDigest).
		Set("reset_password_expires", expires).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// buildResetPasswordQuery swaps the password hash and burns the reset token
// in one statement.
func buildResetPasswordQuery(b sq.StatementBuilderType, tokenDigest, passwordHash string, now time.Time) (string, []any, error) {
	return b.Update(usersTable).
		Set("password_hash", passwordHash).
		Set("reset_password_token", nil).
		Set("reset_password_expires", nil).
		Where(sq.Eq{"reset_password_token": tokenDigest}).
		Where(sq.Gt{"reset_password_expires": now}).
		Suffix(returning(userColumns)).
		ToSql()
}

func buildSetVerifiedQuery(b sq.StatementBuilderType, email string) (string, []any, error) {
	return b.Update(usersTable).
		Set("is_verified", true).
		Set("verification_token", nil).
		Set("verification_expires", nil).
		Where(sq.Eq{"email": email}).
		ToSql()
}

// documents

func buildInsertDocumentQuery(b sq.StatementBuilderType, doc models.Document) (string, []any, error) {
	validationErrors, err := encodeValidationErrors(doc.ValidationErrors)
	if err != nil {
		return "", nil, err
	}

	return b.Insert(documentsTable).
		Columns(
			"user_id", "document_type", "document_number", "name", "date_of_birth", "gender",
			"storage_key", "original_file_name", "file_size", "mime_type", "checksum",
			"validation_errors", "view_count", "status", "created_at", "updated_at",
		).
		Values(
			doc.UserID, doc.DocumentType, doc.DocumentNumber, doc.Name, doc.DateOfBirth, doc.Gender,
			doc.StorageKey, doc.Metadata.OriginalFileName, doc.Metadata.FileSize, doc.Metadata.MimeType, doc.Metadata.Checksum,
			validationErrors, 0, string(doc.Status), doc.CreatedAt, doc.UpdatedAt,
		).
		Suffix(returning(documentColumns)).
		ToSql()
}

func buildSelectDocumentQuery(b sq.StatementBuilderType, documentID int64) (string, []any, error) {
	return b.Select(documentColumns...).
		From(documentsTable).
		Where(sq.Eq{"id": documentID}).
		ToSql()
}

func buildListDocumentsQuery(b sq.StatementBuilderType, filter DocumentFilter) (string, []any, error) {
	q := b.Select(documentColumns...).From(documentsTable)
	if filter.OwnerID != nil {
		q = q.Where(sq.Eq{"user_id": *filter.OwnerID})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	return q.OrderBy("created_at DESC", "id DESC").ToSql()
}

func buildDeleteDocumentQuery(b sq.StatementBuilderType, documentID int64, ownerID *int64) (string, []any, error) {
	q := b.Delete(documentsTable).Where(sq.Eq{"id": documentID})
	if ownerID != nil {
		q = q.Where(sq.Eq{"user_id": *ownerID})
	}
	return q.Suffix(returning(documentColumns)).ToSql()
}

func buildUpdateReviewQuery(b sq.StatementBuilderType, documentID, reviewerID int64, review models.VerifyInput, at time.Time) (string, []any, error) {
	return b.Update(documentsTable).
		Set("status", string(review.Status)).
		Set("admin_notes", review.Notes).
		Set("verified_by", reviewerID).
		Set("verified_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": documentID}).
		Suffix(returning(documentColumns)).
		ToSql()
}

// buildRecordViewQuery is the conditional increment. With limit > 0 the
// WHERE clause makes the update a no-op once the cap is reached.
func buildRecordViewQuery(b sq.StatementBuilderType, documentID int64, limit int, at time.Time) (string, []any, error) {
	q := b.Update(documentsTable).
		Set("view_count", sq.Expr("view_count + 1")).
		Set("last_viewed_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": documentID})
	if limit > 0 {
		q = q.Where(sq.Lt{"view_count": limit})
	}
	return q.Suffix("RETURNING view_count").ToSql()
}

func buildInsertViewQuery(b sq.StatementBuilderType, documentID int64, at time.Time) (string, []any, error) {
	return b.Insert(documentViewsTable).
		Columns("document_id", "viewed_at").
		Values(documentID, at).
		ToSql()
}

func buildSelectViewsQuery(b sq.StatementBuilderType, documentID int64) (string, []any, error) {
	return b.Select("viewed_at").
		From(documentViewsTable).
		Where(sq.Eq{"document_id": documentID}).
		OrderBy("viewed_at ASC", "id ASC").
		ToSql()
}

func buildDocumentExistsQuery(b sq.StatementBuilderType, documentID int64) (string, []any, error) {
	return b.Select("view_count").
		From(documentsTable).
		Where(sq.Eq{"id": documentID}).
		ToSql()
}

func buildResetViewsQuery(b sq.StatementBuilderType, documentID int64, at time.Time) (string, []any, error) {
	return b.Update(documentsTable).
		Set("view_count", 0).
		Set("updated_at", at).
		Where(sq.Eq{"id": documentID}).
		ToSql()
}

func buildCountByStatusQuery(b sq.StatementBuilderType, status models.DocumentStatus) (string, []any, error) {
	return b.Select("COUNT(*)").
		From(documentsTable).
		Where(sq.Eq{"status": string(status)}).
		ToSql()
}

// scanning

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.UserID, &u.Email, &u.Name, &u.PasswordHash, &u.IsAdmin, &u.IsVerified, &u.CreatedAt)
	return u, err
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func scanDocument(row rowScanner) (models.Document, error) {
	var (
		d                models.Document
		validationErrors string
		lastViewedAt     sql.NullTime
		verifiedBy       sql.NullInt64
		verifiedAt       sql.NullTime
	)

	err := row.Scan(
		&d.ID, &d.UserID, &d.DocumentType, &d.DocumentNumber, &d.Name, &d.DateOfBirth, &d.Gender,
		&d.StorageKey, &d.Metadata.OriginalFileName, &d.Metadata.FileSize, &d.Metadata.MimeType, &d.Metadata.Checksum,
		&validationErrors, &d.ViewCount, &lastViewedAt,
		&d.Status, &d.AdminNotes, &verifiedBy, &verifiedAt,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return models.Document{}, err
	}

	if d.ValidationErrors, err = decodeValidationErrors(validationErrors); err != nil {
		return models.Document{}, err
	}
	if lastViewedAt.Valid {
		t := lastViewedAt.Time
		d.LastViewedAt = &t
	}
	if verifiedBy.Valid {
		id := verifiedBy.Int64
		d.VerifiedBy = &id
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		d.VerifiedAt = &t
	}
	return d, nil
}

func encodeValidationErrors(errs []string) (string, error) {
	if len(errs) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(errs)
	if err != nil {
		return "", fmt.Errorf("encoding validation errors: %w", err)
	}
	return string(b), nil
}

func decodeValidationErrors(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var errs []string
	if err := json.Unmarshal([]byte(s), &errs); err != nil {
		return nil, fmt.Errorf("decoding validation errors: %w", err)
	}
	return errs, nil
}
