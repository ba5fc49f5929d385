// Package utils provides helpers shared by the server and the client:
// typed context keys, JSON responses, the resty client, JWT signing and
// verification, and id generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-doc-verifier/models"
)

// contextKey is a private type for context keys.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

var (
	// UserIDCtxKey holds the int64 id of the authenticated user.
	UserIDCtxKey = contextKey("userID")

	// RequesterCtxKey holds the models.Requester resolved by the auth middleware.
	RequesterCtxKey = contextKey("requester")
)

// GetUserIDFromContext returns the user id and whether it was present.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}

// WithRequester stores the requester and its user id in ctx.
func WithRequester(ctx context.Context, requester models.Requester) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, requester.UserID)
	return context.WithValue(ctx, RequesterCtxKey, requester)
}

// GetRequesterFromContext returns the requester set by WithRequester.
func GetRequesterFromContext(ctx context.Context) (models.Requester, bool) {
	requester, ok := ctx.Value(RequesterCtxKey).(models.Requester)
	return requester, ok
}
