package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// prompt is where the authorization code for an installed application is
// read from.
var prompt io.Reader = os.Stdin

// LoadCredentials returns an HTTP client authorised for the requested scopes.
// Service account keys are used directly. OAuth client secrets ("installed"
// or "web") use a token cached alongside the credentials file, asking for an
// authorization code on first use.
func LoadCredentials(ctx context.Context, credentials string, scopes ...string) (*http.Client, error) {
	path, err := ResolvePath(credentials)
	if err != nil {
		return nil, fmt.Errorf("credentials: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var kind struct {
		Type      string          `json:"type"`
		Installed json.RawMessage `json:"installed"`
		Web       json.RawMessage `json:"web"`
	}

	if err := json.Unmarshal(b, &kind); err != nil {
		return nil, fmt.Errorf("%w: %s (%v)", ErrCredentials, path, err)
	}

	switch {
	case kind.Type == "service_account":
		config, err := google.JWTConfigFromJSON(b, scopes...)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%v)", ErrCredentials, path, err)
		}

		debugf("Using service account %s", config.Email)

		return config.Client(ctx), nil

	case kind.Installed != nil || kind.Web != nil:
		config, err := google.ConfigFromJSON(b, scopes...)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%v)", ErrCredentials, path, err)
		}

		return getClient(ctx, tokensFile(path, scopes), config)

	default:
		return nil, fmt.Errorf("%w: %s (unsupported credentials type '%s')", ErrCredentials, path, kind.Type)
	}
}

func tokensFile(credentials string, scopes []string) string {
	dir, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	switch {
	case slices.Contains(scopes, SCRIPT):
		return filepath.Join(dir, fmt.Sprintf("%s.script", name))

	case slices.Contains(scopes, SHEETS):
		return filepath.Join(dir, fmt.Sprintf("%s.sheets", name))

	default:
		return filepath.Join(dir, fmt.Sprintf("%s.tokens", name))
	}
}

// Retrieves a cached token or requests a new one, then returns the client.
func getClient(ctx context.Context, tokens string, config *oauth2.Config) (*http.Client, error) {
	token, err := tokenFromFile(tokens)
	if err != nil {
		if token, err = getTokenFromWeb(ctx, config); err != nil {
			return nil, err
		}

		if err := saveToken(tokens, token); err != nil {
			warnf("Unable to cache OAuth token (%v)", err)
		}
	}

	return config.Client(ctx, token), nil
}

// Request a token from the web, then returns the retrieved token.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	url := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)

	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", url)

	var code string
	if _, err := fmt.Fscan(prompt, &code); err != nil {
		return nil, fmt.Errorf("unable to read authorization code (%w)", err)
	}

	token, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web (%w)", err)
	}

	return token, nil
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	infof("Saving OAuth token to %s", path)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
