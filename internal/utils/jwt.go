package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-doc-verifier/models"
)

var (
	ErrInvalidJWTParams     = errors.New("invalid params for generating JWT Token")
	ErrInvalidAuthorization = errors.New("invalid authorization header")
)

// GenerateJWTToken creates a signed HS256 session token.
//
// Claims: iss = issuer, sub = userID, aud = ["session"], iat = now,
// exp = now + tokenDuration. All parameters are required.
//
//	token, err := utils.GenerateJWTToken("go-doc-verifier", 42, 24*time.Hour, "secret")
func GenerateJWTToken(issuer string, userID int64, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || tokenDuration <= 0 || signKey == "" {
		return models.Token{}, ErrInvalidJWTParams
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatInt(userID, 10),
		Audience:  jwt.ClaimStrings{models.AudienceSession},
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during singing JWT token: %w", err)
	}

	return models.Token{Token: token, RegisteredClaims: *claims, SignedString: tokenString, UserID: userID}, nil
}

// ValidateAndParseJWTToken verifies a session token: HS256 signature,
// issuer, the "session" audience and expiry. The subject is returned as UserID.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string) (models.Token, error) {
	parsed := models.Token{}
	token, err := ParseHS256(tokenString, &parsed, tokenSignKey,
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(models.AudienceSession),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if parsed.Subject == "" {
		return models.Token{}, errors.New("empty subject error")
	}
	userID, err := parsed.GetUserID()
	if err != nil {
		return models.Token{}, err
	}

	parsed.Token = token
	parsed.SignedString = tokenString
	parsed.UserID = userID
	return parsed, nil
}

// SignHS256 signs claims with key.
func SignHS256(claims jwt.Claims, key string) (string, error) {
	if key == "" {
		return "", ErrInvalidJWTParams
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
}

// ParseHS256 verifies tokenString into claims. Only HS256 is accepted and
// an "exp" claim is required.
func ParseHS256(tokenString string, claims jwt.Claims, key string, opts ...jwt.ParserOption) (*jwt.Token, error) {
	opts = append([]jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}, opts...)

	return jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(key), nil
	}, opts...)
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>" header.
func ParseBearerToken(authorizationHeader string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorizationHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidAuthorization
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidAuthorization
	}
	return token, nil
}
