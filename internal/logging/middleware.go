// ABOUTME: HTTP request logging middleware for the mock server.
// ABOUTME: Captures method, path, SObject, status, duration, and bodies into the request log.

package logging

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dusch/testdata-salesforce/internal/auth"
	"github.com/dusch/testdata-salesforce/internal/store"
)

const maxBodySize = 10 * 1024 // 10KB limit for body capture

// RequestLogger persists request log entries.
type RequestLogger interface {
	LogRequest(log *store.RequestLog) error
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
	body       *bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	if room := maxBodySize - rw.body.Len(); room > 0 {
		rw.body.Write(b[:min(len(b), room)])
	}
	return rw.ResponseWriter.Write(b)
}

// Middleware records every request except health checks and metrics scrapes.
// Store failures are logged and never affect the response.
func Middleware(s RequestLogger, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			var requestBody string
			if r.Body != nil {
				head, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
				if err == nil {
					requestBody = string(head)
					// The handler still sees the full body.
					r.Body = struct {
						io.Reader
						io.Closer
					}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
				}
			}
			if strings.HasSuffix(r.URL.Path, "/oauth2/token") {
				requestBody = ""
			}

			start := time.Now()
			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(wrapped, r)

			entry := &store.RequestLog{
				SObject:      SObjectFromPath(r.URL.Path),
				Method:       r.Method,
				Path:         r.URL.Path,
				StatusCode:   wrapped.statusCode,
				DurationMs:   int(time.Since(start).Milliseconds()),
				Username:     auth.UserFromContext(r.Context()),
				IPAddress:    clientIP(r),
				UserAgent:    r.Header.Get("User-Agent"),
				RequestBody:  requestBody,
				ResponseBody: wrapped.body.String(),
			}
			if wrapped.statusCode >= 400 {
				entry.Error = firstErrorCode(wrapped.body.Bytes())
			}

			if err := s.LogRequest(entry); err != nil {
				logger.Warn("failed to record request", zap.String("path", r.URL.Path), zap.Error(err))
			}
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(ip)
	}
	return r.RemoteAddr
}
