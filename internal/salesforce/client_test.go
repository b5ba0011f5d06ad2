// ABOUTME: Tests for the Salesforce REST client against httptest servers.
// ABOUTME: Covers login, create success/failure mapping, retries, and auth errors.

package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenHandler(t *testing.T, instanceURL func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("grant_type") != "password" || r.FormValue("password") != "secretTOKEN" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{
				"error":             "invalid_grant",
				"error_description": "authentication failure",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "00Dtoken",
			"instance_url": instanceURL(),
			"token_type":   "Bearer",
		})
	}
}

func testCreds(loginURL string) Credentials {
	return Credentials{
		Username:      "seed@example.com",
		Password:      "secret",
		SecurityToken: "TOKEN",
		ClientID:      "cid",
		ClientSecret:  "csecret",
		LoginURL:      loginURL,
	}
}

func setupServer(t *testing.T, sobjects http.HandlerFunc) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/services/oauth2/token", newTokenHandler(t, func() string { return srv.URL }))
	mux.HandleFunc("/services/data/", sobjects)
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fastRetry() Option {
	return WithRetry(4, time.Millisecond)
}

func TestLogin(t *testing.T) {
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {})

	c, err := Login(context.Background(), testCreds(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, srv.URL, c.InstanceURL())
	assert.Equal(t, "00Dtoken", c.accessToken)
	assert.Equal(t, DefaultAPIVersion, c.apiVersion)
}

func TestLogin_InstanceOverride(t *testing.T) {
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {})

	creds := testCreds(srv.URL)
	creds.InstanceURL = "https://example.my.salesforce.com/"
	creds.APIVersion = "v60.0"

	c, err := Login(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "https://example.my.salesforce.com", c.InstanceURL())
	assert.Equal(t, "v60.0", c.apiVersion)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {})

	creds := testCreds(srv.URL)
	creds.SecurityToken = "WRONG"

	_, err := Login(context.Background(), creds)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestCreate_Success(t *testing.T) {
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/services/data/v59.0/sobjects/Account/", r.URL.Path)
		assert.Equal(t, "Bearer 00Dtoken", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme", body["Name"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"001000000000001AAA","success":true,"errors":[]}`))
	})

	c, err := Login(context.Background(), testCreds(srv.URL))
	require.NoError(t, err)

	res, err := c.Create(context.Background(), "Account", map[string]string{"Name": "Acme"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "001000000000001AAA", res.ID)
}

func TestCreate_RejectedSave(t *testing.T) {
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`[{"message":"Required fields are missing: [LastName]","errorCode":"REQUIRED_FIELD_MISSING","fields":["LastName"]}]`))
	})

	c, err := Login(context.Background(), testCreds(srv.URL))
	require.NoError(t, err)

	res, err := c.Create(context.Background(), "Contact", map[string]string{})
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "REQUIRED_FIELD_MISSING", res.Errors[0].ErrorCode)
	assert.Equal(t, "REQUIRED_FIELD_MISSING: Required fields are missing: [LastName] [LastName]", res.ErrorSummary())
}

func TestCreate_RetriesServiceUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"00Q000000000001AAA","success":true,"errors":[]}`))
	})

	c, err := Login(context.Background(), testCreds(srv.URL), fastRetry())
	require.NoError(t, err)

	res, err := c.Create(context.Background(), "Lead", map[string]string{"LastName": "Doe"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreate_GivesUpAfterMaxTries(t *testing.T) {
	var calls atomic.Int32
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, err := Login(context.Background(), testCreds(srv.URL), fastRetry())
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "Lead", map[string]string{})
	require.Error(t, err)

	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
	assert.Equal(t, int32(4), calls.Load())
}

func TestCreate_UnauthorizedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`[{"message":"Session expired or invalid","errorCode":"INVALID_SESSION_ID"}]`))
	})

	c, err := Login(context.Background(), testCreds(srv.URL), fastRetry())
	require.NoError(t, err)

	_, err = c.Create(context.Background(), "Account", map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet(t *testing.T) {
	srv := setupServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/data/v59.0/sobjects/Account/001000000000001AAA", r.URL.Path)
		w.Write([]byte(`{"Id":"001000000000001AAA","Name":"Acme"}`))
	})

	c, err := Login(context.Background(), testCreds(srv.URL))
	require.NoError(t, err)

	rec, err := c.Get(context.Background(), "Account", "001000000000001AAA")
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec["Name"])
}
