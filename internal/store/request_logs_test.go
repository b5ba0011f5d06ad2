// ABOUTME: Tests for request log storage operations.
// ABOUTME: Covers filtering and aggregate statistics.

package store

import "testing"

func seedRequestLogs(t *testing.T, s *Store) {
	t.Helper()
	logs := []*RequestLog{
		{SObject: "Account", Method: "POST", Path: "/services/data/v59.0/sobjects/Account/", StatusCode: 201, DurationMs: 10},
		{SObject: "Account", Method: "POST", Path: "/services/data/v59.0/sobjects/Account/", StatusCode: 201, DurationMs: 20},
		{SObject: "Contact", Method: "POST", Path: "/services/data/v59.0/sobjects/Contact/", StatusCode: 400, DurationMs: 5, Error: "INVALID_CROSS_REFERENCE_KEY"},
		{SObject: "Contact", Method: "GET", Path: "/services/data/v59.0/sobjects/Contact/003A", StatusCode: 404, DurationMs: 5},
		{Method: "POST", Path: "/services/oauth2/token", StatusCode: 200, DurationMs: 40},
	}
	for _, l := range logs {
		if err := s.LogRequest(l); err != nil {
			t.Fatalf("LogRequest() error = %v", err)
		}
	}
}

func TestGetRequestLogs_Filters(t *testing.T) {
	s := setupTestDB(t)
	seedRequestLogs(t, s)

	tests := []struct {
		name  string
		query RequestLogQuery
		want  int
	}{
		{name: "all", query: RequestLogQuery{}, want: 5},
		{name: "by sobject", query: RequestLogQuery{SObject: "Contact"}, want: 2},
		{name: "by method", query: RequestLogQuery{Method: "POST"}, want: 4},
		{name: "by path prefix", query: RequestLogQuery{PathPrefix: "/services/data/"}, want: 4},
		{name: "by status", query: RequestLogQuery{StatusCode: 201}, want: 2},
		{name: "errors only", query: RequestLogQuery{ErrorsOnly: true}, want: 2},
		{name: "limit", query: RequestLogQuery{Limit: 1}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			got, err := s.GetRequestLogs(&q)
			if err != nil {
				t.Fatalf("GetRequestLogs() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Expected %d logs, got %d", tt.want, len(got))
			}
		})
	}
}

func TestGetRequestLogs_NewestFirst(t *testing.T) {
	s := setupTestDB(t)
	seedRequestLogs(t, s)

	logs, err := s.GetRequestLogs(&RequestLogQuery{Limit: 1})
	if err != nil {
		t.Fatalf("GetRequestLogs() error = %v", err)
	}
	if logs[0].Path != "/services/oauth2/token" {
		t.Errorf("Expected newest entry first, got %s", logs[0].Path)
	}
}

func TestGetRequestLogStats(t *testing.T) {
	s := setupTestDB(t)
	seedRequestLogs(t, s)

	stats, err := s.GetRequestLogStats()
	if err != nil {
		t.Fatalf("GetRequestLogStats() error = %v", err)
	}
	if stats.TotalRequests != 5 {
		t.Errorf("Expected 5 total requests, got %d", stats.TotalRequests)
	}
	if stats.ErrorRequests != 2 {
		t.Errorf("Expected 2 error requests, got %d", stats.ErrorRequests)
	}
	if stats.AvgDurationMs != 16 {
		t.Errorf("Expected avg 16ms, got %d", stats.AvgDurationMs)
	}
	if stats.UniqueEndpoints != 4 {
		t.Errorf("Expected 4 unique endpoints, got %d", stats.UniqueEndpoints)
	}
	if stats.CreatesOK["Account"] != 2 {
		t.Errorf("Expected 2 successful Account creates, got %d", stats.CreatesOK["Account"])
	}
	if stats.CreatesFailed["Contact"] != 1 {
		t.Errorf("Expected 1 failed Contact create, got %d", stats.CreatesFailed["Contact"])
	}
}
