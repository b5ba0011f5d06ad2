// ABOUTME: Tests for mock CRM metrics.
// ABOUTME: Reads counters back with prometheus testutil.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/services/data/{version}/sobjects/{sobject}/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	route := "/services/data/{version}/sobjects/{sobject}/{id}"
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", route, "404"))

	for _, id := range []string{"001A", "001B"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/services/data/v59.0/sobjects/Account/"+id, nil))
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", route, "404"))
	assert.Equal(t, 2.0, after-before)
}

func TestRecordSave(t *testing.T) {
	before := testutil.ToFloat64(sobjectSaves.WithLabelValues("Contact", OutcomeRejected))
	RecordSave("Contact", OutcomeRejected)
	assert.Equal(t, 1.0, testutil.ToFloat64(sobjectSaves.WithLabelValues("Contact", OutcomeRejected))-before)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	RecordTokenIssued()

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "sfseed_mock_oauth_tokens_issued_total"))
}
