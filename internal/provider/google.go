package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the userinfo response the directory needs.
type GoogleProfile struct {
	Sub     string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// OAuthProvider exchanges an authorization code for a user profile.
type OAuthProvider interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error)
}

// GoogleOAuth implements OAuthProvider against Google endpoints.
type GoogleOAuth struct {
	config *oauth2.Config
}

// NewGoogleOAuth configures the exchange flow.
func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled reports whether credentials were configured.
func (g *GoogleOAuth) Enabled() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != ""
}

// AuthURL returns the consent-screen redirect URL.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// ExchangeCode trades the authorization code for tokens and fetches the
// user's profile.
func (g *GoogleOAuth) ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error) {
	var profile *GoogleProfile
	err := withRetry(ctx, func() error {
		token, err := g.config.Exchange(ctx, code)
		if err != nil {
			return fmt.Errorf("exchange code: %w", err)
		}

		resp, err := g.config.Client(ctx, token).Get(userInfoURL)
		if err != nil {
			return fmt.Errorf("fetch userinfo: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != 200 {
			return fmt.Errorf("userinfo status %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		var p GoogleProfile
		if err := json.Unmarshal(body, &p); err != nil {
			return fmt.Errorf("parse userinfo: %w", err)
		}
		profile = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
