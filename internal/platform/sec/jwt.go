// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides the cryptographic primitives of the auth stub.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the stub's handlers. Tokens are HS256 JWTs carrying a unique jti so a single
// token can be revoked on logout.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/tinytales/pkg/uuidv7"
)

// AuthClaims is the payload of a bearer token.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Email is abbreviated to keep the token small.
	Email string `json:"eml"`
}

// TokenService mints and verifies HS256 bearer tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
}

// NewTokenService creates a [TokenService] from a shared secret.
func NewTokenService(signingKey, issuer string) (*TokenService, error) {
	if signingKey == "" {
		return nil, errors.New("sec: signing key is empty")
	}
	return &TokenService{signingKey: []byte(signingKey), issuer: issuer}, nil
}

// GenerateAccessToken signs a token for the account and returns it with its jti.
func (service *TokenService) GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, *AuthClaims, error) {
	currentTime := time.Now()
	claims := &AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuidv7.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, claims, nil
}

// VerifyToken checks the signature, issuer and expiry of a token.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.signingKey, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
