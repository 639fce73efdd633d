package oauth

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

const microsoftGraphMeURL = "https://graph.microsoft.com/v1.0/me"

var ErrEmailMissing = errors.New("oauth profile has no email")

type MicrosoftProvider struct {
	baseProvider
}

func NewMicrosoftProvider(clientID string, clientSecret string, redirectURL string, tenant string, scopes []string) *MicrosoftProvider {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       scopes,
		Endpoint:     microsoft.AzureADEndpoint(tenant),
	}
	return &MicrosoftProvider{baseProvider{
		name:        ProviderMicrosoft,
		config:      config,
		userInfoURL: microsoftGraphMeURL,
	}}
}

type microsoftInformation struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

func (m *MicrosoftProvider) FetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error) {
	var info microsoftInformation
	if err := m.getJSON(ctx, token, &info); err != nil {
		return Profile{}, err
	}

	// Work accounts without a mailbox only expose the UPN.
	email := info.Mail
	if email == "" {
		email = info.UserPrincipalName
	}
	if email == "" {
		return Profile{}, ErrEmailMissing
	}

	return Profile{
		Provider:   ProviderMicrosoft,
		ProviderID: info.ID,
		Email:      email,
		Name:       info.DisplayName,
	}, nil
}
