// ABOUTME: Salesforce-shaped error responses for the mock server's HTTP handlers
// ABOUTME: Writes REST error arrays and OAuth token endpoint errors

package errors

import (
	"encoding/json"
	"net/http"
)

// APIError is one element of the error array the REST API returns.
//
// Usage:
//
//	WriteError(w, http.StatusBadRequest, ErrRequiredFieldMissing, "Required fields are missing: [Name]", "Name")
type APIError struct {
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode"`
	Fields    []string `json:"fields,omitempty"`
}

// OAuthError is the body of a failed token request.
type OAuthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

// SaveResult is the body of a create response. Failed creates carry Errors
// and no ID.
type SaveResult struct {
	ID      string     `json:"id,omitempty"`
	Success bool       `json:"success"`
	Errors  []APIError `json:"errors"`
}

// WriteError writes a single-element error array.
func WriteError(w http.ResponseWriter, status int, code, message string, fields ...string) {
	WriteErrors(w, status, []APIError{{Message: message, ErrorCode: code, Fields: fields}})
}

// WriteErrors writes an error array with every violation found.
func WriteErrors(w http.ResponseWriter, status int, errs []APIError) {
	WriteJSON(w, status, errs)
}

// WriteOAuthError writes the token endpoint's error body.
func WriteOAuthError(w http.ResponseWriter, status int, code, description string) {
	WriteJSON(w, status, OAuthError{Error: code, Description: description})
}

// WriteJSON serializes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// REST API error codes
const (
	ErrRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
	ErrInvalidCrossRefKey   = "INVALID_CROSS_REFERENCE_KEY"
	ErrInvalidField         = "INVALID_FIELD"
	ErrInvalidType          = "INVALID_TYPE"
	ErrNotFound             = "NOT_FOUND"
	ErrJSONParser           = "JSON_PARSER_ERROR"
	ErrInvalidSession       = "INVALID_SESSION_ID"
	ErrMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	ErrUnknown              = "UNKNOWN_EXCEPTION"
)

// OAuth error codes
const (
	OAuthInvalidGrant     = "invalid_grant"
	OAuthInvalidClient    = "invalid_client"
	OAuthUnsupportedGrant = "unsupported_grant_type"
	OAuthInvalidRequest   = "invalid_request"
)
