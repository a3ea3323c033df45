package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultTokenFile is where fintrack-oauth-init stores the user token.
const DefaultTokenFile = "token.json"

// OAuthConfigFromEnv builds the OAuth client config from
// GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE. It returns nil and
// no error when neither is set.
func OAuthConfigFromEnv() (*oauth2.Config, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))

	var b []byte
	switch {
	case clientJSON != "":
		b = []byte(clientJSON)
	case clientFile != "":
		var err error
		if b, err = os.ReadFile(clientFile); err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, nil
	}

	cfg, err := goauth.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}
	return cfg, nil
}

// TokenFile returns GOOGLE_OAUTH_TOKEN_FILE or DefaultTokenFile.
func TokenFile() string {
	if f := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE")); f != "" {
		return f
	}
	return DefaultTokenFile
}

// SaveToken writes tok as JSON, readable only by the owner.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open token file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		f.Close()
		return fmt.Errorf("write token: %w", err)
	}
	return f.Close()
}

// LoadToken reads a token written by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.New("token file holds no access or refresh token")
	}
	return &tok, nil
}

// userTokenSource returns a refreshing token source for the user account
// authorized with fintrack-oauth-init, or nil when no OAuth client is set.
func userTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	cfg, err := OAuthConfigFromEnv()
	if err != nil || cfg == nil {
		return nil, err
	}
	tok, err := LoadToken(TokenFile())
	if err != nil {
		return nil, err
	}
	return cfg.TokenSource(ctx, tok), nil
}
