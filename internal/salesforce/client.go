// ABOUTME: Salesforce REST client used to create seed records.
// ABOUTME: Authenticates with the username-password flow and retries throttled or failed calls.

package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// Client talks to one Salesforce instance with one access token.
type Client struct {
	httpClient  *http.Client
	instanceURL string
	apiVersion  string
	accessToken string
	logger      *zap.Logger
	maxTries    uint
	newBackOff  func() backoff.BackOff
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRetry sets the attempt limit and the first retry interval.
func WithRetry(maxTries uint, initial time.Duration) Option {
	return func(c *Client) {
		c.maxTries = maxTries
		c.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxInterval = initial * 20
			return b
		}
	}
}

func newClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiVersion: DefaultAPIVersion,
		logger:     zap.NewNop(),
		maxTries:   5,
		newBackOff: func() backoff.BackOff { return backoff.NewExponentialBackOff() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for an access token and returns a ready client.
func Login(ctx context.Context, creds Credentials, opts ...Option) (*Client, error) {
	c := newClient(opts...)
	if creds.APIVersion != "" {
		c.apiVersion = creds.APIVersion
	}

	loginURL := strings.TrimRight(creds.LoginURL, "/")
	if loginURL == "" {
		loginURL = DefaultLoginURL
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("username", creds.Username)
	form.Set("password", creds.Password+creds.SecurityToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL+"/services/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var oe oauthError
		if json.Unmarshal(body, &oe) == nil && oe.Error != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrUnauthorized, oe.Error, oe.Description)
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrUnauthorized)
	}

	c.accessToken = tok.AccessToken
	c.instanceURL = strings.TrimRight(tok.InstanceURL, "/")
	if creds.InstanceURL != "" {
		c.instanceURL = strings.TrimRight(creds.InstanceURL, "/")
	}
	if c.instanceURL == "" {
		return nil, errors.New("salesforce: no instance URL in token response")
	}

	c.logger.Info("authenticated to salesforce",
		zap.String("username", creds.Username),
		zap.String("instance_url", c.instanceURL),
		zap.String("api_version", c.apiVersion),
	)
	return c, nil
}

// InstanceURL returns the base URL the client talks to.
func (c *Client) InstanceURL() string {
	return c.instanceURL
}

// Create inserts one record. A save rejected by Salesforce (HTTP 400) is
// reported as SaveResult.Success == false with a nil error; transport
// failures and exhausted retries are returned as errors.
func (c *Client) Create(ctx context.Context, sobject string, payload any) (SaveResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode %s: %w", sobject, err)
	}
	endpoint := c.sobjectURL(sobject) + "/"

	op := func() (SaveResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return SaveResult{}, backoff.Permanent(err)
		}
		c.addAuthHeaders(req)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return SaveResult{}, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return SaveResult{}, err
		}

		switch {
		case resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK:
			var result SaveResult
			if err := json.Unmarshal(respBody, &result); err != nil {
				return SaveResult{}, backoff.Permanent(fmt.Errorf("parse save result: %w", err))
			}
			return result, nil
		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
			var apiErrs []APIError
			if err := json.Unmarshal(respBody, &apiErrs); err != nil {
				return SaveResult{}, backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(respBody)})
			}
			return SaveResult{Success: false, Errors: apiErrs}, nil
		case resp.StatusCode == http.StatusUnauthorized:
			return SaveResult{}, backoff.Permanent(ErrUnauthorized)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
				return SaveResult{}, backoff.RetryAfter(secs)
			}
			return SaveResult{}, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
		default:
			return SaveResult{}, backoff.Permanent(&StatusError{StatusCode: resp.StatusCode, Body: string(respBody)})
		}
	}

	result, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Warn("retrying create",
				zap.String("sobject", sobject),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		return SaveResult{}, fmt.Errorf("create %s: %w", sobject, err)
	}
	return result, nil
}

// Get fetches a record as a field map.
func (c *Client) Get(ctx context.Context, sobject, id string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sobjectURL(sobject)+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", sobject, id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("parse %s %s: %w", sobject, id, err)
	}
	return record, nil
}

func (c *Client) sobjectURL(sobject string) string {
	return fmt.Sprintf("%s/services/data/%s/sobjects/%s", c.instanceURL, c.apiVersion, url.PathEscape(sobject))
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
}
