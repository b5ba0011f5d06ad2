// ABOUTME: Request and response types for the Salesforce REST API.
// ABOUTME: Covers OAuth token responses, save results, and API error arrays.

package salesforce

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultAPIVersion is used when no version is configured.
const DefaultAPIVersion = "v59.0"

// DefaultLoginURL is the production login host.
const DefaultLoginURL = "https://login.salesforce.com"

var ErrUnauthorized = errors.New("salesforce: unauthorized")

// Credentials for the OAuth 2.0 username-password flow.
type Credentials struct {
	Username      string
	Password      string
	SecurityToken string
	ClientID      string
	ClientSecret  string
	LoginURL      string
	// InstanceURL overrides the instance returned by the token endpoint.
	InstanceURL string
	APIVersion  string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	TokenType   string `json:"token_type"`
	IssuedAt    string `json:"issued_at"`
}

type oauthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// SaveResult mirrors the body Salesforce returns for a create call.
type SaveResult struct {
	ID      string     `json:"id"`
	Success bool       `json:"success"`
	Errors  []APIError `json:"errors"`
}

// ErrorSummary joins the error codes and messages of a failed save.
func (r SaveResult) ErrorSummary() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// APIError is one element of a Salesforce error array.
type APIError struct {
	ErrorCode string   `json:"errorCode"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields,omitempty"`
}

func (e APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s [%s]", e.ErrorCode, e.Message, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// StatusError is returned for responses the client cannot map to a save result.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("salesforce: unexpected status %d: %s", e.StatusCode, e.Body)
}
