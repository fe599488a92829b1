package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn is returned when no credentials file exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Credentials is the session context created at login and injected into the
// API client. It is never read as ambient global state.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserType     string `json:"userType"`
	UserName     string `json:"userName"`
}

// credentialsFile returns the path to the stored credentials inside dir.
func credentialsFile(dir string) string {
	return filepath.Join(dir, "credentials.json")
}

// Load reads credentials from dir. Returns ErrNotLoggedIn if absent.
func Load(dir string) (*Credentials, error) {
	data, err := os.ReadFile(credentialsFile(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var c Credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return &c, nil
}

// Save writes credentials to dir, creating it if needed. The file is
// user-readable only.
func Save(dir string, c *Credentials) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	if err := os.WriteFile(credentialsFile(dir), data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// Clear removes stored credentials. Removing absent credentials is not an error.
func Clear(dir string) error {
	err := os.Remove(credentialsFile(dir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

// ExpiresAt returns the expiry time embedded in the access token. The token
// is parsed without signature verification; only the server can verify it,
// the client just wants to warn before starting a session with a stale token.
func (c *Credentials) ExpiresAt() (time.Time, error) {
	if c.AccessToken == "" {
		return time.Time{}, errors.New("no access token")
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(c.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("access token has no expiry claim")
	}
	return exp.Time, nil
}

// Expired reports whether the access token expiry has passed. Tokens whose
// expiry cannot be determined are treated as live; the server is the
// authority either way.
func (c *Credentials) Expired(now time.Time) bool {
	exp, err := c.ExpiresAt()
	if err != nil {
		return false
	}
	return now.After(exp)
}
