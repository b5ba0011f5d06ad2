// ABOUTME: Authentication middleware for mock Salesforce REST requests.
// ABOUTME: Validates Bearer session tokens and puts the owning username on the request context.

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dusch/testdata-salesforce/internal/errors"
	"github.com/dusch/testdata-salesforce/internal/store"
)

type contextKey string

const userContextKey contextKey = "user"

// TokenLookup finds an issued session token.
type TokenLookup interface {
	GetToken(token string) (*store.OAuthToken, error)
}

// Middleware rejects requests without a valid, unrevoked session token with
// the REST API's 401 INVALID_SESSION_ID error array.
func Middleware(tokens TokenLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				errors.WriteError(w, http.StatusUnauthorized, errors.ErrInvalidSession, "Session expired or invalid")
				return
			}

			t, err := tokens.GetToken(token)
			if err != nil || !t.Valid(time.Now()) {
				errors.WriteError(w, http.StatusUnauthorized, errors.ErrInvalidSession, "Session expired or invalid")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, t.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the username of the authenticated session, or "".
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userContextKey).(string)
	return user
}

func bearerToken(authHeader string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authHeader), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
