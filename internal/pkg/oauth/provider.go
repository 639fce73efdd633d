package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	ProviderGoogle    = "google"
	ProviderMicrosoft = "microsoft"
)

// Profile is the identity an OAuth provider vouches for.
type Profile struct {
	Provider   string
	ProviderID string
	Email      string
	Name       string
	AvatarURL  string
}

type Provider interface {
	// Name returns the route key of the provider (google, microsoft).
	Name() string
	// GenerateState generates a random state string for OAuth2 flows.
	GenerateState() string
	// RedirectURL generates the OAuth2 redirect URL with a state.
	RedirectURL(state string) string
	// Exchange trades the authorization code for an OAuth2 token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	// FetchProfile loads the user profile with the exchanged token.
	FetchProfile(ctx context.Context, token *oauth2.Token) (Profile, error)
}

// baseProvider carries the parts every authorization-code provider shares.
type baseProvider struct {
	name        string
	config      *oauth2.Config
	userInfoURL string
}

func (p *baseProvider) Name() string {
	return p.name
}

func (p *baseProvider) GenerateState() string {
	return base64.RawURLEncoding.EncodeToString([]byte(p.name + "." + uuid.NewString()))
}

func (p *baseProvider) RedirectURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *baseProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// getJSON performs an authorized GET against the provider's profile endpoint.
func (p *baseProvider) getJSON(ctx context.Context, token *oauth2.Token, out interface{}) error {
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s profile request failed: status %d", p.name, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
