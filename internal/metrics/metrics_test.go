package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewarePathLabelUsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := Middleware(mux)

	patternCounter := httpRequestsTotal.WithLabelValues("200", "GET", "/api/v1/orders/{id}")
	before := testutil.ToFloat64(patternCounter)

	// Act: two requests with distinct ids.
	for _, target := range []string{"/api/v1/orders/SH00000001", "/api/v1/orders/SH00000002"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}

	// Assert: both land on the one pattern label, not one series per id.
	assert.Equal(t, before+2, testutil.ToFloat64(patternCounter))
	assert.Zero(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("200", "GET", "/api/v1/orders/SH00000001")))
}

func TestMiddlewareCapturesStatusCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	handler := Middleware(mux)

	counter := httpRequestsTotal.WithLabelValues("404", "GET", "/missing")
	before := testutil.ToFloat64(counter)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
