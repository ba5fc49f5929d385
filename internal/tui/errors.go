// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-doc-verifier/internal/adapter"
)

// humanizeError turns adapter errors into one line for the status area.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, adapter.ErrViewQuotaExceeded):
		return "View limit reached for this document"
	case errors.Is(err, adapter.ErrViewExpired):
		return "View session expired, request a new one"
	case errors.Is(err, adapter.ErrEmailNotVerified):
		return "Verify your email first, the link was sent when you registered"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "Not signed in or wrong credentials"
	case errors.Is(err, adapter.ErrForbidden):
		return "Access denied"
	case errors.Is(err, adapter.ErrNotFound):
		return "Document not found"
	case errors.Is(err, adapter.ErrTooManyRequests):
		return "Too many attempts, try again later"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "No network or server is unavailable"
	}

	return err.Error()
}
