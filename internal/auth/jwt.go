package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jackut/internal/config"
)

const streamTokenIssuer = "jackut-apiserver"

var ErrTokenRevoked = errors.New("token revoked")

// Claims identify the login a stream token was issued to. Session is the session token
// it was minted alongside, so logging out can revoke both.
type Claims struct {
	Login   string `json:"login"`
	Session string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken issues a short-lived stream token used to open the notification socket.
func GenerateToken(login, session string, authCfg config.AuthConfig, now time.Time) (string, *Claims, error) {
	jwtID, err := uuid.NewRandom()
	if err != nil {
		return "", nil, fmt.Errorf("generate token id: %w", err)
	}

	claims := &Claims{
		Login:   login,
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   login,
			ExpiresAt: jwt.NewNumericDate(now.Add(authCfg.JWTExpiry)),
			ID:        jwtID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    streamTokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(authCfg.JWTSecretKey))
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, claims, nil
}

// ValidateToken checks signature, expiry and issuer, then consults blacklist when one
// is configured.
func ValidateToken(ctx context.Context, tokenString string, jwtKey string, blacklist TokenBlacklist) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(jwtKey), nil
	}, jwt.WithIssuer(streamTokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token invalid")
	}

	if blacklist != nil {
		if claims.ID == "" {
			return nil, errors.New("token has no jti")
		}
		revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token blacklist: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	return claims, nil
}
