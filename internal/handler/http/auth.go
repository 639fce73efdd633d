package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workday-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const (
	oauthStateCookieName = "oauth_state"
	oauthStateTTL        = 5 * time.Minute
	oauthCallbackPath    = "/api/v1/auth/oauth/callback/"
)

type AuthHandler interface {
	LoginWithOAuth(w http.ResponseWriter, r *http.Request)
	OAuthCallback(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	jwtService   jwt.Service
	authService  auth.AuthService
	frontendURL  string
	secureCookie bool
}

func NewAuthHandler(jwtService jwt.Service, authService auth.AuthService, frontendURL string, secureCookie bool) AuthHandler {
	return &AuthHandlerImpl{
		jwtService:   jwtService,
		authService:  authService,
		frontendURL:  frontendURL,
		secureCookie: secureCookie,
	}
}

// LoginWithOAuth implements AuthHandler.
func (a *AuthHandlerImpl) LoginWithOAuth(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	redirectURL, state, err := a.authService.OAuthRedirect(provider)
	if err != nil {
		slog.Error("LoginWithOAuth service error", "provider", provider, "error", err)
		response.HandleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     oauthCallbackPath + provider,
		Expires:  time.Now().Add(oauthStateTTL),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// OAuthCallback implements AuthHandler.
func (a *AuthHandlerImpl) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	redirectWithError := func(code string) {
		redirectURL := fmt.Sprintf("%s/login?error=%s", a.frontendURL, url.QueryEscape(code))
		http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
	}

	errorValue := r.URL.Query().Get("error")
	if errorValue == "access_denied" {
		slog.Error("OAuth access denied by user", "provider", provider)
		redirectWithError("access_denied")
		return
	}
	if errorValue != "" {
		slog.Error("Error in OAuth callback", "provider", provider, "error", errorValue)
		redirectWithError(errorValue)
		return
	}

	stateReq, err := r.Cookie(oauthStateCookieName)
	if err != nil || stateReq.Value == "" {
		slog.Error("State cookie not found", "provider", provider, "error", err)
		redirectWithError("state_cookie_not_found")
		return
	}

	stateParam := r.URL.Query().Get("state")
	if stateParam == "" {
		slog.Error("State parameter is empty", "provider", provider, "error", auth.ErrInvalidOAuthState)
		redirectWithError("state_param_empty")
		return
	}
	if stateParam != stateReq.Value {
		slog.Error("State mismatch", "provider", provider, "error", auth.ErrInvalidOAuthState)
		redirectWithError("state_mismatch")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Error("Code value is empty", "provider", provider)
		redirectWithError("code_empty")
		return
	}

	// The state is single use.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     oauthCallbackPath + provider,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	session := auth.SessionTrackingRequest{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	tokenResponse, err := a.authService.OAuthCallback(r.Context(), provider, code, session)
	if err != nil {
		slog.Error("OAuthCallback service error", "provider", provider, "error", err)
		switch {
		case errors.Is(err, auth.ErrUnknownProvider):
			redirectWithError("unknown_provider")
		case errors.Is(err, auth.ErrOAuthExchange):
			redirectWithError("token_verification_failed")
		default:
			redirectWithError("login_failed")
		}
		return
	}

	http.SetCookie(w, a.jwtService.RefreshTokenCookie(tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn))
	slog.Info("User logged in successfully via OAuth", "provider", provider)

	redirectURL := fmt.Sprintf("%s/auth/success?token=%s&expires_in=%d",
		a.frontendURL,
		url.QueryEscape(tokenResponse.AccessToken),
		tokenResponse.AccessTokenExpiresIn,
	)
	http.Redirect(w, r, redirectURL, http.StatusTemporaryRedirect)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshTokenReq, ok := readRefreshToken(w, r)
	if !ok {
		return
	}

	tokenResponse, err := a.authService.RefreshToken(r.Context(), refreshTokenReq)
	if err != nil {
		slog.Error("Refresh Token service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Token refreshed successfully")
	response.SuccessWithMessage(w, "Token refreshed successfully", tokenResponse)
}

// Logout implements AuthHandler. The cookie is cleared even when revocation fails.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	refreshTokenReq, ok := readRefreshToken(w, r)
	if !ok {
		return
	}

	if err := a.authService.Logout(r.Context(), refreshTokenReq); err != nil {
		slog.Error("Logout service error", "error", err)
	}

	http.SetCookie(w, a.jwtService.ClearRefreshTokenCookie())
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// readRefreshToken prefers the cookie and falls back to a JSON body.
func readRefreshToken(w http.ResponseWriter, r *http.Request) (auth.RefreshTokenRequest, bool) {
	var req auth.RefreshTokenRequest

	cookie, err := r.Cookie(jwt.RefreshTokenCookieName)
	if err == nil && cookie.Value != "" {
		req.RefreshToken = cookie.Value
		return req, true
	}

	if r.Body == nil {
		return req, true
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Refresh Token decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return req, false
	}
	return req, true
}
