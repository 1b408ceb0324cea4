package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

const tokenFileName = "google.token"

// Auth manages the OAuth2 flow and token cache for the Gmail API. Tokens
// are stored in the user cache directory as "access refresh" pairs.
type Auth struct {
	clientID     string
	clientSecret string
}

func NewAuth(clientID, clientSecret string) *Auth {
	return &Auth{clientID: clientID, clientSecret: clientSecret}
}

func (a *Auth) oauthConfig() *oauth2.Config {
	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes: []string{
			gmail.MailGoogleComScope, // read, modify and label mail
		},
	}
}

// HasToken checks if a cached OAuth token exists.
func (a *Auth) HasToken() bool {
	_, err := os.ReadFile(tokenFile())
	return err == nil
}

// AuthURL returns the OAuth URL the user must visit to authorize access.
func (a *Auth) AuthURL() string {
	return a.oauthConfig().AuthCodeURL("state")
}

// SaveToken exchanges an authorization code for tokens and caches them.
func (a *Auth) SaveToken(ctx context.Context, authCode string) error {
	t, err := a.oauthConfig().Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	cacheDir := filepath.Dir(tokenFile())
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(tokenFile(), []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// TokenSource returns an OAuth2 token source backed by the cached token.
func (a *Auth) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	slurp, err := os.ReadFile(tokenFile())
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found, run the auth command first")
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format")
	}

	ts := a.oauthConfig().TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}
	return ts, nil
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is forced to HTTP/1.1 to avoid HTTP/2 protocol errors seen
// with long-lived Gmail API connections.
func (a *Auth) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := a.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}
	return client, nil
}

func tokenFile() string {
	return filepath.Join(userCacheDir(), "jobagent", tokenFileName)
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
