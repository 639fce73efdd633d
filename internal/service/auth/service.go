package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workday-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/workday-backend-go/internal/repository/postgresql"
)

type AuthServiceImpl struct {
	user.UserRepository
	auth.RefreshTokenRepository
	jwt.Service
	txManager postgresql.TxManager
	providers map[string]oauth.Provider
}

func NewAuthService(
	userRepository user.UserRepository,
	refreshTokenRepository auth.RefreshTokenRepository,
	jwtService jwt.Service,
	txManager postgresql.TxManager,
	providers ...oauth.Provider,
) auth.AuthService {
	byName := make(map[string]oauth.Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AuthServiceImpl{
		UserRepository:         userRepository,
		RefreshTokenRepository: refreshTokenRepository,
		Service:                jwtService,
		txManager:              txManager,
		providers:              byName,
	}
}

// OAuthRedirect implements auth.AuthService.
func (a *AuthServiceImpl) OAuthRedirect(provider string) (string, string, error) {
	p, ok := a.providers[provider]
	if !ok {
		return "", "", auth.ErrUnknownProvider
	}
	state := p.GenerateState()
	return p.RedirectURL(state), state, nil
}

// OAuthCallback implements auth.AuthService.
func (a *AuthServiceImpl) OAuthCallback(ctx context.Context, provider string, code string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	p, ok := a.providers[provider]
	if !ok {
		return auth.TokenResponse{}, auth.ErrUnknownProvider
	}
	if strings.TrimSpace(code) == "" {
		return auth.TokenResponse{}, auth.ErrOAuthExchange
	}

	token, err := p.Exchange(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("%w: %v", auth.ErrOAuthExchange, err)
	}
	profile, err := p.FetchProfile(ctx, token)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	var tokenResponse auth.TokenResponse
	err = a.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		account, err := a.resolveAccount(ctx, profile)
		if err != nil {
			return err
		}

		tokenResponse, err = a.issueTokens(ctx, account, session)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// resolveAccount links the provider identity to the user with the same email, or creates
// a Pending Employee when none exists.
func (a *AuthServiceImpl) resolveAccount(ctx context.Context, profile oauth.Profile) (user.User, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))

	var avatar *string
	if profile.AvatarURL != "" {
		avatar = &profile.AvatarURL
	}

	existing, err := a.UserRepository.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err == nil {
		linkedID := existing.GoogleID
		if profile.Provider == oauth.ProviderMicrosoft {
			linkedID = existing.MicrosoftID
		}
		// Only Google profiles fill in a missing avatar.
		if profile.Provider != oauth.ProviderGoogle {
			avatar = nil
		}
		if linkedID != nil && (avatar == nil || existing.Avatar != nil) {
			return existing, nil
		}
		return a.UserRepository.LinkOAuthAccount(ctx, existing.ID, profile.Provider, profile.ProviderID, avatar)
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = email
	}
	newUser := user.User{
		Name:   name,
		Email:  email,
		Role:   user.RoleEmployee,
		Status: user.StatusPending,
		Avatar: avatar,
	}
	providerID := profile.ProviderID
	switch profile.Provider {
	case oauth.ProviderGoogle:
		newUser.GoogleID = &providerID
	case oauth.ProviderMicrosoft:
		newUser.MicrosoftID = &providerID
	}

	created, err := a.UserRepository.Create(ctx, newUser)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("User registered via oauth", "user_id", created.ID, "provider", profile.Provider)
	return created, nil
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(accessClaims(u))
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.RefreshTokenRepository.CreateRefreshToken(ctx, u.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}
	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if strings.TrimSpace(req.RefreshToken) == "" {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenMissing
	}
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 1. Verify signature, expiry and token type
	userID, err := a.Service.ParseRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check DB for revocation/expiry
	revoked, err := a.RefreshTokenRepository.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Reload the user so role and status changes apply
	u, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, err
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(accessClaims(u))
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService. An absent token is not an error.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.RefreshTokenRequest) error {
	if strings.TrimSpace(req.RefreshToken) == "" {
		return nil
	}
	if err := a.RefreshTokenRepository.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func accessClaims(u user.User) jwt.AccessClaims {
	return jwt.AccessClaims{
		UserID: u.ID,
		Role:   string(u.Role),
		Name:   u.Name,
		Status: string(u.Status),
	}
}
