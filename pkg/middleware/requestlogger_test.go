package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vouchwall/testimonial-service/pkg/logger"
)

func TestRequestLogger_StoresEnrichedLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var fromCtx *slog.Logger
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = logger.FromContext(r.Context())
		fromCtx.InfoContext(r.Context(), "inside handler")
		w.WriteHeader(http.StatusOK)
	})

	// RequestLogging sets the correlation ID, RequestLogger enriches with it.
	handler := RequestLogging(base)(RequestLogger(base)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/p1/testimonials", nil)
	req.Header.Set("X-Correlation-ID", "corr-777")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotNil(t, fromCtx)
	assert.NotEqual(t, slog.Default(), fromCtx)
	assert.Contains(t, buf.String(), "corr-777")
	assert.Contains(t, buf.String(), "inside handler")
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogging(base)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
	assert.Contains(t, buf.String(), "http request")
}

func TestRequestLogging_CapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogging(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Contains(t, buf.String(), `"status":404`)
}
