package lib

import (
	"errors"
	"fmt"
	"net/http"
	"storefront_server/structs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// accessClaims is the wire form of structs.AuthClaims.
type accessClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// SignToken signs claims as an HS256 access token.
func SignToken(claims *structs.AuthClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Sub.String(),
			ID:        claims.Jti.String(),
			IssuedAt:  jwt.NewNumericDate(claims.Iat),
			ExpiresAt: jwt.NewNumericDate(claims.Exp),
		},
	})
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an access token. Expired tokens yield ErrExpiredToken, anything else ErrInvalidToken.
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	var wire accessClaims
	_, err := jwt.ParseWithClaims(tokenStr, &wire,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrExpiredToken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := uuid.Parse(wire.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: sub: %v", ErrInvalidToken, err)
	}
	jti, err := uuid.Parse(wire.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: jti: %v", ErrInvalidToken, err)
	}
	if wire.IssuedAt == nil || wire.Email == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	return &structs.AuthClaims{
		Sub:     sub,
		Email:   wire.Email,
		IsAdmin: wire.IsAdmin,
		Iat:     wire.IssuedAt.Time,
		Exp:     wire.ExpiresAt.Time,
		Jti:     jti,
	}, nil
}

// ExtractClaims reads and verifies the access token cookie.
func ExtractClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	accessToken, err := GetCookieValue(AccessCookieName, r)
	if err != nil {
		return nil, err
	}

	return ParseToken(accessToken, secret)
}
