package oauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrEmailNotVerified = errors.New("oauth email is not verified")

type GoogleProvider struct {
	baseProvider
}

func NewGoogleProvider(clientID string, clientSecret string, redirectURL string, scopes []string) *GoogleProvider {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     google.Endpoint,
	}
	return &GoogleProvider{baseProvider{
		name:        ProviderGoogle,
		config:      config,
		userInfoURL: googleUserInfoURL,
	}}
}

type googleInformation struct {
	GoogleID      string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *GoogleProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	var info googleInformation
	if err := g.getJSON(ctx, token, &info); err != nil {
		return Profile{}, err
	}
	if !info.VerifiedEmail {
		return Profile{}, ErrEmailNotVerified
	}

	return Profile{
		Provider:   ProviderGoogle,
		ProviderID: info.GoogleID,
		Email:      info.Email,
		Name:       info.Name,
		AvatarURL:  info.Picture,
	}, nil
}
