// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the terminal client's view of the document verifier
// API.
//
// [ServerAdapter] hides the transport from the TUI. Failed calls come back
// as the sentinel errors in errors.go, chosen from the status code and the
// "error" code of the JSON body, so callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-doc-verifier/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

type ServerAdapter interface {
	// SetToken stores the session token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored session token, or "".
	Token() string

	// Login posts the credentials and stores the returned session token.
	Login(ctx context.Context, email, password string) (models.User, error)

	Me(ctx context.Context) (models.User, error)

	// ListDocuments returns the caller's documents with masked numbers.
	ListDocuments(ctx context.Context) ([]models.DocumentSummary, error)

	// RequestView asks for a 30 second view grant. For standard users this
	// spends one view of the document's quota.
	RequestView(ctx context.Context, documentID int64) (models.ViewGrant, error)

	// ResolveView exchanges a live grant for the decrypted document.
	ResolveView(ctx context.Context, viewToken string) (models.DocumentView, error)

	Version(ctx context.Context) (models.AppBuildInfo, error)
}
