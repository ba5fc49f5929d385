package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when a registration collides with an
	// existing account.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a lookup by email or id matches nothing.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrTokenNotFound is returned when a verification or reset token is
	// unknown, already used or expired.
	ErrTokenNotFound = errors.New("account token was not found")

	// ErrDocumentNotFound is returned when a document id does not exist, or
	// exists but is outside the scope the caller asked for.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrViewQuotaExceeded is returned by RecordView when the document has
	// already reached the view cap. Nothing is written in that case.
	ErrViewQuotaExceeded = errors.New("view quota exceeded")

	// ErrFileNotFound is returned by file storages for unknown keys.
	ErrFileNotFound = errors.New("file was not found")

	// ErrUnsupportedDSN is returned when the DSN selects no known driver.
	ErrUnsupportedDSN = errors.New("unsupported database dsn")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when squirrel fails to render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails. The
	// transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when an INSERT, UPDATE or DELETE fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning fails during multi-row iteration.
	ErrScanningRows = errors.New("failed to scan rows")
)
