package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")
)

// Extracted field problems. The messages are stored on the document and
// shown to users.
var (
	ErrNothingExtracted         = errors.New("no data could be extracted from the document")
	ErrInvalidDocumentNumber    = errors.New("invalid Aadhaar number format")
	ErrMissingName              = errors.New("could not extract name")
	ErrMissingDateOfBirth       = errors.New("could not extract date of birth")
	ErrInvalidDateOfBirthFormat = errors.New("invalid date of birth format (should be DD/MM/YYYY)")
	ErrInvalidDateOfBirth       = errors.New("invalid date of birth")
	ErrMissingGender            = errors.New("could not extract gender")
	ErrInvalidGender            = errors.New("invalid gender value")
)

// Upload problems.
var (
	ErrEmptyFile           = errors.New("no document file provided")
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedFileType = errors.New("invalid file type, only JPEG, PNG and PDF allowed")
)

// Review and account problems.
var (
	ErrInvalidStatus   = errors.New("status must be one of pending, verified, rejected")
	ErrInvalidEmail    = errors.New("a valid email is required")
	ErrEmptyName       = errors.New("name is required")
	ErrPasswordTooWeak = errors.New("password must be at least 8 characters")
	ErrMissingToken    = errors.New("token is required")
)
