package auth

import "errors"

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrRefreshTokenMissing = errors.New("refresh token is required")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUnknownProvider     = errors.New("unknown oauth provider")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
	ErrOAuthExchange       = errors.New("oauth code exchange failed")
)
