// ABOUTME: Unit tests for Salesforce-shaped error response helpers
// ABOUTME: Validates body format, status codes, and content type

package errors

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		code       string
		message    string
		fields     []string
		wantFields int
	}{
		{
			name:       "missing field",
			status:     http.StatusBadRequest,
			code:       ErrRequiredFieldMissing,
			message:    "Required fields are missing: [LastName]",
			fields:     []string{"LastName"},
			wantFields: 1,
		},
		{
			name:    "unknown sobject",
			status:  http.StatusNotFound,
			code:    ErrNotFound,
			message: "The requested resource does not exist",
		},
		{
			name:    "bad session",
			status:  http.StatusUnauthorized,
			code:    ErrInvalidSession,
			message: "Session expired or invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.status, tt.code, tt.message, tt.fields...)

			if rr.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Expected JSON content type, got %s", ct)
			}

			var body []APIError
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("Expected error array, got %s: %v", rr.Body.String(), err)
			}
			if len(body) != 1 {
				t.Fatalf("Expected 1 error, got %d", len(body))
			}
			if body[0].ErrorCode != tt.code || body[0].Message != tt.message {
				t.Errorf("Unexpected error element: %+v", body[0])
			}
			if len(body[0].Fields) != tt.wantFields {
				t.Errorf("Expected %d fields, got %v", tt.wantFields, body[0].Fields)
			}
		})
	}
}

func TestWriteError_OmitsEmptyFields(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusNotFound, ErrNotFound, "gone")

	if strings.Contains(rr.Body.String(), "fields") {
		t.Errorf("Expected no fields key, got %s", rr.Body.String())
	}
}

func TestWriteErrors_Multiple(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteErrors(rr, http.StatusBadRequest, []APIError{
		{ErrorCode: ErrRequiredFieldMissing, Message: "Required fields are missing: [Name]", Fields: []string{"Name"}},
		{ErrorCode: ErrInvalidCrossRefKey, Message: "invalid cross reference id", Fields: []string{"OwnerId"}},
	})

	var body []APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 || body[1].ErrorCode != ErrInvalidCrossRefKey {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestWriteOAuthError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteOAuthError(rr, http.StatusBadRequest, OAuthInvalidGrant, "authentication failure")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
	var body OAuthError
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "invalid_grant" || body.Description != "authentication failure" {
		t.Errorf("Unexpected body: %+v", body)
	}
}
