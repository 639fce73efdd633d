package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/cmlabs-hris/workday-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workday-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func callbackRequest(path string, state string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: state})
	}
	return req
}

func TestAuthHandler_LoginWithOAuth_SetsStateAndRedirects(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.auth.redirectURL = "https://accounts.example/consent?state=s-1"
	ts.auth.state = "s-1"

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/auth/login/oauth/google", "", "")

	// Assert
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, ts.auth.redirectURL, rec.Header().Get("Location"))
	cookie := findCookie(rec, oauthStateCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "s-1", cookie.Value)
	assert.Equal(t, "/api/v1/auth/oauth/callback/google", cookie.Path)
	assert.True(t, cookie.HttpOnly)
}

func TestAuthHandler_LoginWithOAuth_UnknownProvider(t *testing.T) {
	// Setup
	ts := newTestServer(t)

	// Act
	rec := ts.do(t, http.MethodGet, "/api/v1/auth/login/oauth/github", "", "")

	// Assert
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthHandler_OAuthCallback_Success(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.auth.tokens = auth.TokenResponse{
		AccessToken:           "access.jwt",
		AccessTokenExpiresIn:  1700000000,
		RefreshToken:          "refresh.jwt",
		RefreshTokenExpiresIn: 1700600000,
	}
	req := callbackRequest("/api/v1/auth/oauth/callback/google?state=s-1&code=c-1", "s-1")
	rec := httptest.NewRecorder()

	// Act
	ts.handler.ServeHTTP(rec, req)

	// Assert
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/auth/success", location.Path)
	assert.Equal(t, "access.jwt", location.Query().Get("token"))
	assert.Equal(t, "1700000000", location.Query().Get("expires_in"))

	refresh := findCookie(rec, jwt.RefreshTokenCookieName)
	require.NotNil(t, refresh)
	assert.Equal(t, "refresh.jwt", refresh.Value)
	assert.Equal(t, jwt.RefreshTokenCookiePath, refresh.Path)
	assert.True(t, refresh.HttpOnly)
}

func TestAuthHandler_OAuthCallback_ErrorRedirects(t *testing.T) {
	cases := []struct {
		name        string
		path        string
		stateCookie string
		callbackErr error
		wantCode    string
	}{
		{"denied", "/api/v1/auth/oauth/callback/google?error=access_denied", "s-1", nil, "access_denied"},
		{"missing cookie", "/api/v1/auth/oauth/callback/google?state=s-1&code=c", "", nil, "state_cookie_not_found"},
		{"missing state", "/api/v1/auth/oauth/callback/google?code=c", "s-1", nil, "state_param_empty"},
		{"mismatch", "/api/v1/auth/oauth/callback/google?state=other&code=c", "s-1", nil, "state_mismatch"},
		{"missing code", "/api/v1/auth/oauth/callback/google?state=s-1", "s-1", nil, "code_empty"},
		{"exchange", "/api/v1/auth/oauth/callback/google?state=s-1&code=c", "s-1", auth.ErrOAuthExchange, "token_verification_failed"},
		{"unknown provider", "/api/v1/auth/oauth/callback/github?state=s-1&code=c", "s-1", auth.ErrUnknownProvider, "unknown_provider"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// Setup
			ts := newTestServer(t)
			ts.auth.callbackErr = c.callbackErr
			rec := httptest.NewRecorder()

			// Act
			ts.handler.ServeHTTP(rec, callbackRequest(c.path, c.stateCookie))

			// Assert
			require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
			location, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/login", location.Path)
			assert.Equal(t, c.wantCode, location.Query().Get("error"))
			assert.Nil(t, findCookie(rec, jwt.RefreshTokenCookieName))
		})
	}
}

func TestAuthHandler_RefreshToken_PrefersCookie(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.auth.refreshed = auth.AccessTokenResponse{AccessToken: "new.jwt", AccessTokenExpiresIn: 1}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refresh_token":"from-body"}`))
	req.AddCookie(&http.Cookie{Name: jwt.RefreshTokenCookieName, Value: "from-cookie"})
	rec := httptest.NewRecorder()

	// Act
	ts.handler.ServeHTTP(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-cookie", ts.auth.refreshReq.RefreshToken)
}

func TestAuthHandler_RefreshToken_BodyFallback(t *testing.T) {
	// Setup
	ts := newTestServer(t)

	// Act
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/refresh", "", `{"refresh_token":"from-body"}`)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-body", ts.auth.refreshReq.RefreshToken)
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	// Setup
	ts := newTestServer(t)
	ts.auth.refreshErr = auth.ErrRefreshTokenRevoked

	// Act
	rec := ts.do(t, http.MethodPost, "/api/v1/auth/refresh", "", `{"refresh_token":"old"}`)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Logout_AlwaysClearsCookie(t *testing.T) {
	for _, method := range []string{http.MethodDelete, http.MethodPost} {
		// Setup
		ts := newTestServer(t)
		path := "/api/v1/auth/refresh"
		if method == http.MethodPost {
			path = "/api/v1/auth/logout"
		}
		req := httptest.NewRequest(method, path, nil)
		req.AddCookie(&http.Cookie{Name: jwt.RefreshTokenCookieName, Value: "r-1"})
		rec := httptest.NewRecorder()

		// Act
		ts.handler.ServeHTTP(rec, req)

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code, method)
		assert.Equal(t, []string{"r-1"}, ts.auth.loggedOut, method)
		cleared := findCookie(rec, jwt.RefreshTokenCookieName)
		require.NotNil(t, cleared, method)
		assert.Empty(t, cleared.Value, method)
		assert.Equal(t, -1, cleared.MaxAge, method)
	}
}
