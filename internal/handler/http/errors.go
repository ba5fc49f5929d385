// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Request level errors produced by the handlers themselves, before any
// service is called.
var (
	// ErrMissingCredentials is returned by the auth middleware when the
	// request carries neither an Authorization header nor a token cookie.
	ErrMissingCredentials = errors.New("no session token provided")

	// ErrNoRequester means an authenticated route ran without the auth
	// middleware in front of it.
	ErrNoRequester = errors.New("no authenticated requester in context")

	ErrInvalidRequestBody = errors.New("invalid request body")
	ErrInvalidDocumentID  = errors.New("invalid document id")
	ErrMissingFile        = errors.New("no document file provided")
	ErrRequestTooLarge    = errors.New("request body is too large")
)
