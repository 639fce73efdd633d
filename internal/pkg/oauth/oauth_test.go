package oauth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func staticToken() *oauth2.Token {
	return &oauth2.Token{AccessToken: "test-access", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}
}

func profileServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-access", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleProvider_FetchProfile_Success(t *testing.T) {
	// Setup
	srv := profileServer(t, `{"id":"g-1","email":"ana@example.com","verified_email":true,"name":"Ana","picture":"https://img/ana.png"}`, http.StatusOK)
	p := NewGoogleProvider("id", "secret", "http://localhost/cb", []string{"email"})
	p.userInfoURL = srv.URL

	// Act
	profile, err := p.FetchProfile(context.Background(), staticToken())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, Profile{
		Provider:   ProviderGoogle,
		ProviderID: "g-1",
		Email:      "ana@example.com",
		Name:       "Ana",
		AvatarURL:  "https://img/ana.png",
	}, profile)
}

func TestGoogleProvider_FetchProfile_UnverifiedEmail(t *testing.T) {
	srv := profileServer(t, `{"id":"g-2","email":"x@example.com","verified_email":false}`, http.StatusOK)
	p := NewGoogleProvider("id", "secret", "http://localhost/cb", nil)
	p.userInfoURL = srv.URL

	_, err := p.FetchProfile(context.Background(), staticToken())
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestGoogleProvider_FetchProfile_UpstreamError(t *testing.T) {
	srv := profileServer(t, `{"error":"invalid"}`, http.StatusUnauthorized)
	p := NewGoogleProvider("id", "secret", "http://localhost/cb", nil)
	p.userInfoURL = srv.URL

	_, err := p.FetchProfile(context.Background(), staticToken())
	assert.Error(t, err)
}

func TestMicrosoftProvider_FetchProfile_FallsBackToUPN(t *testing.T) {
	srv := profileServer(t, `{"id":"m-1","displayName":"Ravi","mail":"","userPrincipalName":"ravi@corp.example"}`, http.StatusOK)
	p := NewMicrosoftProvider("id", "secret", "http://localhost/cb", "common", nil)
	p.userInfoURL = srv.URL

	profile, err := p.FetchProfile(context.Background(), staticToken())

	require.NoError(t, err)
	assert.Equal(t, "ravi@corp.example", profile.Email)
	assert.Equal(t, "Ravi", profile.Name)
	assert.Equal(t, ProviderMicrosoft, profile.Provider)
}

func TestMicrosoftProvider_FetchProfile_NoEmail(t *testing.T) {
	srv := profileServer(t, `{"id":"m-2","displayName":"Nobody"}`, http.StatusOK)
	p := NewMicrosoftProvider("id", "secret", "http://localhost/cb", "common", nil)
	p.userInfoURL = srv.URL

	_, err := p.FetchProfile(context.Background(), staticToken())
	assert.ErrorIs(t, err, ErrEmailMissing)
}

func TestProvider_GenerateStateAndRedirect(t *testing.T) {
	p := NewMicrosoftProvider("client-123", "secret", "http://localhost/cb", "organizations", []string{"User.Read"})

	state := p.GenerateState()
	other := p.GenerateState()
	assert.NotEqual(t, state, other)

	decoded, err := base64.RawURLEncoding.DecodeString(state)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(decoded), "microsoft."))

	redirect, err := url.Parse(p.RedirectURL(state))
	require.NoError(t, err)
	assert.Contains(t, redirect.Path, "/organizations/")
	assert.Equal(t, "client-123", redirect.Query().Get("client_id"))
	assert.Equal(t, state, redirect.Query().Get("state"))
}
