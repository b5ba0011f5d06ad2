// ABOUTME: Tests for OAuth token storage.
// ABOUTME: Covers issue, lookup, revoke, and expiry checks.

package store

import (
	"testing"
	"time"
)

func TestTokenLifecycle(t *testing.T) {
	s := setupTestDB(t)

	tok := &OAuthToken{
		Token:       "00Dxx!abc",
		Username:    "admin@example.com",
		ClientID:    "client",
		InstanceURL: "http://localhost:9100",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	if err := s.StoreToken(tok); err != nil {
		t.Fatalf("StoreToken() error = %v", err)
	}

	got, err := s.GetToken("00Dxx!abc")
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if got.Username != "admin@example.com" || got.InstanceURL != "http://localhost:9100" {
		t.Errorf("Unexpected token: %+v", got)
	}
	if !got.Valid(time.Now()) {
		t.Error("Expected fresh token to be valid")
	}

	if err := s.RevokeToken("00Dxx!abc"); err != nil {
		t.Fatalf("RevokeToken() error = %v", err)
	}
	got, err = s.GetToken("00Dxx!abc")
	if err != nil {
		t.Fatalf("GetToken() after revoke error = %v", err)
	}
	if got.Valid(time.Now()) {
		t.Error("Expected revoked token to be invalid")
	}

	if _, err := s.GetToken("missing"); err == nil {
		t.Error("Expected error for unknown token")
	}
}

func TestOAuthToken_Valid(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		tok  OAuthToken
		want bool
	}{
		{name: "no expiry", tok: OAuthToken{}, want: true},
		{name: "future expiry", tok: OAuthToken{ExpiresAt: now.Add(time.Minute)}, want: true},
		{name: "expired", tok: OAuthToken{ExpiresAt: now.Add(-time.Minute)}, want: false},
		{name: "revoked", tok: OAuthToken{Revoked: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.Valid(now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
