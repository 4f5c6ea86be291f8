// Package oauth wraps the Google authorization-code flow used for social login.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/eduport/portfolio-api/internal/core/ports"
)

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// googleUser is the subset of the Google userinfo response we consume.
type googleUser struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleProvider implements the redirect-and-callback half of Google login.
// The code-for-token exchange is server-to-server; the access token never
// reaches the browser.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds a provider for the registered OAuth application.
// callbackURL must exactly match the redirect URI configured in the Google
// console.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Enabled reports whether OAuth credentials were configured.
func (p *GoogleProvider) Enabled() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

// AuthURL returns the Google consent URL for the given anti-CSRF state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for the user's Google profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ports.GoogleProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging code: %w", err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("oauth: fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: userinfo returned status %d", resp.StatusCode)
	}

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("oauth: decoding userinfo: %w", err)
	}
	if gu.Email == "" {
		return nil, fmt.Errorf("oauth: userinfo carried no email")
	}

	return &ports.GoogleProfile{
		Email:      gu.Email,
		Name:       gu.Name,
		PictureURL: gu.Picture,
	}, nil
}
