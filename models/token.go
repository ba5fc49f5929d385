package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Token audiences. A token is accepted only where its audience is expected,
// so a session token cannot be replayed as a view grant and vice versa.
const (
	AudienceSession      = "session"
	AudienceDocumentView = "document_view"
)

// Token is a signed session token.
//
// SignedString holds the compact form sent to clients in the Authorization
// header and the "token" cookie. UserID caches the parsed "sub" claim.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	SignedString string `json:"-"`

	UserID int64 `json:"-"`
}

// GetUserID parses the "sub" claim as a base-10 user id.
func (t *Token) GetUserID() (int64, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting user id from token: %w", err)
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting token subject to user id: %w", err)
	}

	return userID, nil
}

// String implements fmt.Stringer and returns the compact token.
func (t *Token) String() string {
	return t.SignedString
}

// ViewClaims is the payload of a view grant.
//
// The registered claims carry the issuer, the requester id as subject, the
// document_view audience, the issue time and an expiry exactly 30 seconds
// after issue. Elevated records the role at issue time; it is kept for
// auditing only and is never used to authorize the resolution.
type ViewClaims struct {
	jwt.RegisteredClaims

	DocumentID int64 `json:"document_id"`
	Elevated   bool  `json:"elevated"`
}
