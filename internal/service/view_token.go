// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-doc-verifier/internal/utils"
	"github.com/MKhiriev/go-doc-verifier/models"
)

// ViewGrantTTL is the lifetime of a view grant.
const ViewGrantTTL = 30 * time.Second

// viewTokens signs and verifies view grants. Grants use the same key as
// session tokens but a different audience, so neither can stand in for
// the other.
type viewTokens struct {
	signKey string
	issuer  string
	now     func() time.Time
}

func (v viewTokens) issue(documentID int64, requester models.Requester) (string, error) {
	issuedAt := v.now()
	claims := models.ViewClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    v.issuer,
			Subject:   strconv.FormatInt(requester.UserID, 10),
			Audience:  jwt.ClaimStrings{models.AudienceDocumentView},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ViewGrantTTL)),
		},
		DocumentID: documentID,
		Elevated:   requester.IsAdmin,
	}

	signed, err := utils.SignHS256(claims, v.signKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}
	return signed, nil
}

// parse verifies signature, issuer, audience and expiry against the
// injected clock, then checks that the grant belongs to requesterID.
func (v viewTokens) parse(token string, requesterID int64) (models.ViewClaims, error) {
	var claims models.ViewClaims
	_, err := utils.ParseHS256(token, &claims, v.signKey,
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(models.AudienceDocumentView),
		jwt.WithTimeFunc(v.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return models.ViewClaims{}, ErrViewTokenExpired
	case err != nil:
		return models.ViewClaims{}, fmt.Errorf("%w: %w", ErrViewTokenInvalid, err)
	}

	if claims.Subject != strconv.FormatInt(requesterID, 10) || claims.DocumentID <= 0 {
		return models.ViewClaims{}, ErrViewTokenInvalid
	}
	return claims, nil
}
