// ABOUTME: OAuth token storage for the mock token endpoint.
// ABOUTME: Handles token lifecycle (issue, validate, revoke).

package store

import (
	"time"
)

// OAuthToken represents an issued access token
type OAuthToken struct {
	Token       string
	Username    string
	ClientID    string
	InstanceURL string
	ExpiresAt   time.Time
	Revoked     bool
	CreatedAt   time.Time
}

// Valid reports whether the token is unrevoked and unexpired at now.
func (t *OAuthToken) Valid(now time.Time) bool {
	if t.Revoked {
		return false
	}
	return t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt)
}

func (s *Store) StoreToken(token *OAuthToken) error {
	_, err := s.db.Exec(`
		INSERT INTO oauth_tokens (token, username, client_id, instance_url, expires_at, revoked)
		VALUES (?, ?, ?, ?, ?, ?)
	`, token.Token, token.Username, token.ClientID, token.InstanceURL, token.ExpiresAt, token.Revoked)
	return err
}

// GetToken retrieves a token by value
func (s *Store) GetToken(token string) (*OAuthToken, error) {
	t := &OAuthToken{}
	err := s.db.QueryRow(`
		SELECT token, username, COALESCE(client_id, ''), COALESCE(instance_url, ''), expires_at, revoked, created_at
		FROM oauth_tokens WHERE token = ?
	`, token).Scan(&t.Token, &t.Username, &t.ClientID, &t.InstanceURL, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) RevokeToken(token string) error {
	_, err := s.db.Exec(`UPDATE oauth_tokens SET revoked = 1 WHERE token = ?`, token)
	return err
}
