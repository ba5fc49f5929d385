package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-doc-verifier/internal/crypto"
	"github.com/MKhiriev/go-doc-verifier/internal/logger"
	"github.com/MKhiriev/go-doc-verifier/internal/service"
	"github.com/MKhiriev/go-doc-verifier/internal/utils"
)

// Error codes sent in the "error" field of a failed response.
const (
	codeNotFound           = "not_found"
	codeQuotaExceeded      = "view_quota_exceeded"
	codeForbidden          = "forbidden"
	codeTokenMissing       = "token_missing"
	codeTokenExpired       = "token_expired"
	codeTokenInvalid       = "token_invalid"
	codeDecryptionBlocked  = "decryption_failed"
	codeValidation         = "validation_failed"
	codeUnauthorized       = "unauthorized"
	codeInvalidCredentials = "invalid_credentials"
	codeUserExists         = "user_exists"
	codeEmailNotVerified   = "email_not_verified"
	codeInvalidToken       = "invalid_token"
	codeBadRequest         = "bad_request"
	codeTooLarge           = "request_too_large"
	codeRateLimited        = "rate_limited"
	codeInternal           = "internal_error"
)

type apiError struct {
	status int
	code   string
}

var errorStatusMap = map[error]apiError{
	service.ErrDocumentNotFound:   {http.StatusNotFound, codeNotFound},
	service.ErrViewQuotaExceeded:  {http.StatusForbidden, codeQuotaExceeded},
	service.ErrForbidden:          {http.StatusForbidden, codeForbidden},
	service.ErrViewTokenMissing:   {http.StatusBadRequest, codeTokenMissing},
	service.ErrViewTokenExpired:   {http.StatusUnauthorized, codeTokenExpired},
	service.ErrViewTokenInvalid:   {http.StatusUnauthorized, codeTokenInvalid},
	service.ErrDocumentDecryption: {http.StatusInternalServerError, codeDecryptionBlocked},
	service.ErrValidation:         {http.StatusBadRequest, codeValidation},
	service.ErrUnauthorized:       {http.StatusUnauthorized, codeUnauthorized},
	service.ErrInvalidCredentials: {http.StatusUnauthorized, codeInvalidCredentials},
	service.ErrUserAlreadyExists:  {http.StatusConflict, codeUserExists},

	service.ErrEmailNotVerified:         {http.StatusUnauthorized, codeEmailNotVerified},
	service.ErrInvalidVerificationToken: {http.StatusBadRequest, codeInvalidToken},
	service.ErrInvalidResetToken:        {http.StatusBadRequest, codeInvalidToken},

	service.ErrFileStorage:         {http.StatusInternalServerError, codeInternal},
	service.ErrTokenCreationFailed: {http.StatusInternalServerError, codeInternal},
	service.ErrMailDelivery:        {http.StatusInternalServerError, codeInternal},
	crypto.ErrEncryptionFailure:    {http.StatusInternalServerError, codeInternal},

	ErrMissingCredentials: {http.StatusUnauthorized, codeUnauthorized},
	ErrNoRequester:        {http.StatusUnauthorized, codeUnauthorized},
	ErrInvalidRequestBody: {http.StatusBadRequest, codeBadRequest},
	ErrInvalidDocumentID:  {http.StatusBadRequest, codeBadRequest},
	ErrMissingFile:        {http.StatusBadRequest, codeValidation},
	ErrRequestTooLarge:    {http.StatusRequestEntityTooLarge, codeTooLarge},
}

// classify returns the status and code for err. Unknown errors are 500.
func classify(err error) apiError {
	for target, apiErr := range errorStatusMap {
		if errors.Is(err, target) {
			return apiErr
		}
	}
	return apiError{http.StatusInternalServerError, codeInternal}
}

// writeError logs err and answers with its mapped status. Server side
// failures get a generic message; the rest carry the error text.
func writeError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	log := logger.FromRequest(r)
	apiErr := classify(err)

	message := err.Error()
	if apiErr.status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Int("status", apiErr.status).Msg("request failed")
		message = http.StatusText(apiErr.status)
	} else {
		log.Debug().Err(err).Str("func", funcName).Int("status", apiErr.status).Msg("request rejected")
	}

	utils.WriteError(w, apiErr.status, apiErr.code, message)
}
