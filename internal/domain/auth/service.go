package auth

import (
	"context"
)

type AuthService interface {
	// OAuthRedirect returns the provider consent URL and the state to pin in a cookie.
	OAuthRedirect(provider string) (redirectURL string, state string, err error)
	// OAuthCallback links or creates the account and issues a token pair.
	OAuthCallback(ctx context.Context, provider string, code string, session SessionTrackingRequest) (TokenResponse, error)
	// RefreshToken reloads the user and issues a new access token.
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req RefreshTokenRequest) error
}
