package validators

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-doc-verifier/models"
)

// Field names accepted by Validate.
const (
	FieldDocumentNumber = "document_number"
	FieldName           = "name"
	FieldDateOfBirth    = "date_of_birth"
	FieldGender         = "gender"

	FieldFile = "file"

	FieldStatus = "status"

	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
)

const minPasswordLength = 8

var (
	documentNumberRe = regexp.MustCompile(`^\d{12}$`)
	dateOfBirthRe    = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

	allowedGenders = []string{"MALE", "FEMALE", "OTHER"}

	// AllowedContentTypes are the accepted upload types.
	AllowedContentTypes = []string{"image/jpeg", "image/png", "application/pdf"}
)

// DocumentValidator implements Validator for models.ExtractedData,
// models.UploadInput, models.VerifyInput and the account requests.
type DocumentValidator struct {
	maxUploadSize int64
}

// NewDocumentValidator returns a validator enforcing maxUploadSize on uploads.
// A non-positive size disables the check.
func NewDocumentValidator(maxUploadSize int64) *DocumentValidator {
	return &DocumentValidator{maxUploadSize: maxUploadSize}
}

func (v *DocumentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ExtractedData:
		return v.validateExtracted(ctx, value, fields...)
	case *models.ExtractedData:
		return v.validateExtracted(ctx, *value, fields...)

	case models.UploadInput:
		return v.validateUpload(ctx, value, fields...)
	case *models.UploadInput:
		return v.validateUpload(ctx, *value, fields...)

	case models.VerifyInput:
		return v.validateVerify(ctx, value, fields...)
	case *models.VerifyInput:
		return v.validateVerify(ctx, *value, fields...)

	case models.RegisterRequest:
		return v.validateRegister(ctx, value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(ctx, *value, fields...)

	case models.ResetPasswordRequest:
		return v.validateResetPassword(ctx, value, fields...)
	case *models.ResetPasswordRequest:
		return v.validateResetPassword(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// validateExtracted collects every problem instead of stopping at the first.
func (v *DocumentValidator) validateExtracted(_ context.Context, data models.ExtractedData, fields ...string) error {
	if data.IsEmpty() {
		return ErrNothingExtracted
	}
	if len(fields) == 0 {
		fields = []string{FieldDocumentNumber, FieldName, FieldDateOfBirth, FieldGender}
	}

	var errs []error
	for _, field := range fields {
		switch field {
		case FieldDocumentNumber:
			if !documentNumberRe.MatchString(NormalizeDocumentNumber(data.DocumentNumber)) {
				errs = append(errs, ErrInvalidDocumentNumber)
			}
		case FieldName:
			if strings.TrimSpace(data.Name) == "" {
				errs = append(errs, ErrMissingName)
			}
		case FieldDateOfBirth:
			if err := validateDateOfBirth(data.DateOfBirth); err != nil {
				errs = append(errs, err)
			}
		case FieldGender:
			switch {
			case data.Gender == "":
				errs = append(errs, ErrMissingGender)
			case !slices.Contains(allowedGenders, strings.ToUpper(data.Gender)):
				errs = append(errs, ErrInvalidGender)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return errors.Join(errs...)
}

func validateDateOfBirth(dob string) error {
	if dob == "" {
		return ErrMissingDateOfBirth
	}
	m := dateOfBirthRe.FindStringSubmatch(dob)
	if m == nil {
		return ErrInvalidDateOfBirthFormat
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return ErrInvalidDateOfBirth
	}
	return nil
}

func (v *DocumentValidator) validateUpload(_ context.Context, in models.UploadInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFile}
	}
	for _, field := range fields {
		if field != FieldFile {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}

	switch {
	case len(in.Content) == 0:
		return ErrEmptyFile
	case v.maxUploadSize > 0 && int64(len(in.Content)) > v.maxUploadSize:
		return ErrFileTooLarge
	case !slices.Contains(AllowedContentTypes, baseContentType(in.ContentType)):
		return ErrUnsupportedFileType
	}
	return nil
}

func (v *DocumentValidator) validateVerify(_ context.Context, in models.VerifyInput, _ ...string) error {
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (v *DocumentValidator) validateRegister(_ context.Context, in models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldName, FieldPassword}
	}

	var errs []error
	for _, field := range fields {
		switch field {
		case FieldEmail:
			if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
				errs = append(errs, ErrInvalidEmail)
			}
		case FieldName:
			if strings.TrimSpace(in.Name) == "" {
				errs = append(errs, ErrEmptyName)
			}
		case FieldPassword:
			if len(in.Password) < minPasswordLength {
				errs = append(errs, ErrPasswordTooWeak)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return errors.Join(errs...)
}

func (v *DocumentValidator) validateResetPassword(_ context.Context, in models.ResetPasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldToken, FieldPassword}
	}

	var errs []error
	for _, field := range fields {
		switch field {
		case FieldToken:
			if strings.TrimSpace(in.Token) == "" {
				errs = append(errs, ErrMissingToken)
			}
		case FieldPassword:
			if len(in.Password) < minPasswordLength {
				errs = append(errs, ErrPasswordTooWeak)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return errors.Join(errs...)
}

// NormalizeDocumentNumber drops everything but ASCII digits.
func NormalizeDocumentNumber(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func baseContentType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}

// Messages flattens an error returned by Validate into its messages.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, Messages(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
