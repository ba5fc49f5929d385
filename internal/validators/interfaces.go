// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks extracted document fields, uploads, review
// decisions and registrations.
//
// Validate returns nil or an errors.Join of package sentinels, so callers
// can test a single rule with errors.Is and list every failure with Messages.
// The optional field names restrict validation to a subset of rules.
package validators

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/validators_mock.go -package=mock

// Validator validates a value, optionally restricted to the named fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
