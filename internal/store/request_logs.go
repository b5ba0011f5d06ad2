// ABOUTME: Request log storage operations.
// ABOUTME: Handles inserting and querying HTTP request logs of the mock server.

package store

import "time"

// RequestLog represents an HTTP request log entry
type RequestLog struct {
	ID           int64
	Timestamp    time.Time
	SObject      string
	Method       string
	Path         string
	StatusCode   int
	DurationMs   int
	Username     string
	IPAddress    string
	UserAgent    string
	Error        string
	RequestBody  string
	ResponseBody string
}

// LogRequest inserts a request log entry
func (s *Store) LogRequest(log *RequestLog) error {
	_, err := s.db.Exec(`
		INSERT INTO request_logs (sobject, method, path, status_code, duration_ms, username, ip_address, user_agent, error, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.SObject, log.Method, log.Path, log.StatusCode, log.DurationMs, log.Username, log.IPAddress, log.UserAgent, log.Error, log.RequestBody, log.ResponseBody)
	return err
}

// RequestLogQuery represents filters for request logs
type RequestLogQuery struct {
	Limit      int
	Offset     int
	SObject    string
	Method     string
	PathPrefix string
	StatusCode int
	// ErrorsOnly keeps responses with status >= 400.
	ErrorsOnly bool
}

// RequestLogStats represents aggregate statistics
type RequestLogStats struct {
	TotalRequests   int
	ErrorRequests   int
	AvgDurationMs   int
	UniqueEndpoints int
	// Creates counts POSTs per SObject by outcome.
	CreatesOK     map[string]int
	CreatesFailed map[string]int
}

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Store) GetRequestLogs(q *RequestLogQuery) ([]*RequestLog, error) {
	query := `SELECT id, timestamp, COALESCE(sobject, ''), method, path, status_code, duration_ms,
	          COALESCE(username, ''), COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(error, ''),
	          COALESCE(request_body, ''), COALESCE(response_body, '')
	          FROM request_logs WHERE 1=1`
	args := []any{}

	if q.SObject != "" {
		query += " AND sobject = ?"
		args = append(args, q.SObject)
	}
	if q.Method != "" {
		query += " AND method = ?"
		args = append(args, q.Method)
	}
	if q.PathPrefix != "" {
		query += ` AND path LIKE ? ESCAPE '\'`
		args = append(args, escapeSQLLike(q.PathPrefix)+"%")
	}
	if q.StatusCode > 0 {
		query += " AND status_code = ?"
		args = append(args, q.StatusCode)
	}
	if q.ErrorsOnly {
		query += " AND status_code >= 400"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*RequestLog
	for rows.Next() {
		log := &RequestLog{}
		if err := rows.Scan(&log.ID, &log.Timestamp, &log.SObject, &log.Method, &log.Path, &log.StatusCode,
			&log.DurationMs, &log.Username, &log.IPAddress, &log.UserAgent, &log.Error,
			&log.RequestBody, &log.ResponseBody); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// GetRequestLogStats returns aggregate statistics
func (s *Store) GetRequestLogStats() (*RequestLogStats, error) {
	stats := &RequestLogStats{
		CreatesOK:     map[string]int{},
		CreatesFailed: map[string]int{},
	}

	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0),
		       CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER),
		       COUNT(DISTINCT path)
		FROM request_logs
	`).Scan(&stats.TotalRequests, &stats.ErrorRequests, &stats.AvgDurationMs, &stats.UniqueEndpoints)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT sobject, status_code < 400, COUNT(*)
		FROM request_logs
		WHERE method = 'POST' AND sobject != ''
		GROUP BY sobject, status_code < 400
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var sobject string
		var ok bool
		var n int
		if err := rows.Scan(&sobject, &ok, &n); err != nil {
			return nil, err
		}
		if ok {
			stats.CreatesOK[sobject] = n
		} else {
			stats.CreatesFailed[sobject] = n
		}
	}
	return stats, rows.Err()
}
