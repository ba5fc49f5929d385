package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-doc-verifier/models"
)

// Codes the server puts in the "error" field that the client reacts to.
const (
	codeQuotaExceeded    = "view_quota_exceeded"
	codeTokenExpired     = "token_expired"
	codeEmailNotVerified = "email_not_verified"
)

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil || body.Error == "" {
		body.Message = strings.TrimSpace(string(resp.Body()))
	}
	message := body.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode())
	}

	switch {
	case body.Error == codeQuotaExceeded:
		return fmt.Errorf("%w: %w: %s", ErrForbidden, ErrViewQuotaExceeded, message)
	case body.Error == codeTokenExpired:
		return fmt.Errorf("%w: %w: %s", ErrUnauthorized, ErrViewExpired, message)
	case body.Error == codeEmailNotVerified:
		return fmt.Errorf("%w: %w: %s", ErrUnauthorized, ErrEmailNotVerified, message)
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrTooManyRequests, message)
	case http.StatusInternalServerError:
		return fmt.Errorf("%w: %s", ErrInternalServerError, message)
	default:
		return fmt.Errorf("http %d: %s", resp.StatusCode(), message)
	}
}
