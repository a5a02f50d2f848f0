package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// ErrNoRefreshToken means the provider did not grant offline access.
var ErrNoRefreshToken = errors.New("authorization did not return a refresh token")

// GmailOAuth runs the web authorization flow for Gmail send access and
// builds per-user clients from stored refresh tokens.
type GmailOAuth struct {
	Config *oauth2.Config
	States *StateSigner
}

func NewGmailOAuth(clientID, clientSecret, redirectURL string, states *StateSigner) *GmailOAuth {
	return &GmailOAuth{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gmail.GmailSendScope, googleoauth.UserinfoEmailScope},
		},
		States: states,
	}
}

// AuthURL is the consent URL for userID. Offline access plus forced
// consent makes Google return a refresh token on every grant.
func (g *GmailOAuth) AuthURL(userID string) string {
	return g.Config.AuthCodeURL(g.States.Sign(userID), oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ParseState returns the user id carried by a callback state.
func (g *GmailOAuth) ParseState(state string) (string, error) {
	return g.States.Verify(state)
}

// Exchange trades an authorization code for a refresh token and the
// account's address. A failed address lookup leaves email empty.
func (g *GmailOAuth) Exchange(ctx context.Context, code string) (refreshToken, email string, err error) {
	tok, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("exchange code: %w", err)
	}
	if tok.RefreshToken == "" {
		return "", "", ErrNoRefreshToken
	}

	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(g.Config.TokenSource(ctx, tok)))
	if err == nil {
		if info, err := svc.Userinfo.Get().Context(ctx).Do(); err == nil {
			email = info.Email
		}
	}
	return tok.RefreshToken, email, nil
}

// Client returns an HTTP client that refreshes access tokens from refreshToken.
func (g *GmailOAuth) Client(ctx context.Context, refreshToken string) *http.Client {
	return g.Config.Client(ctx, &oauth2.Token{RefreshToken: refreshToken})
}

// Gmail returns a Gmail API client acting for the owner of refreshToken.
func (g *GmailOAuth) Gmail(ctx context.Context, refreshToken string) (*gmail.Service, error) {
	return gmail.NewService(ctx, option.WithHTTPClient(g.Client(ctx, refreshToken)))
}
