package auth

import (
	"context"
	"time"
)

// TokenBlacklist stores revoked stream token ids until the tokens would have expired anyway.
type TokenBlacklist interface {
	Add(ctx context.Context, jti string, originalTokenExpTime time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}
