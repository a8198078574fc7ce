package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/catalog/pkg/logger"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(logger.NewWithWriter("catalog", "info", &buf))(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil))

	id := rr.Header().Get(CorrelationHeader)
	assert.NotEmpty(t, id)

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, id, lines[0]["correlation_id"])
	assert.Equal(t, float64(http.StatusOK), lines[0]["status"])
}

func TestRequestLogging_KeepsClientCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(logger.NewWithWriter("catalog", "info", &buf))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "corr-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "corr-1", rr.Header().Get(CorrelationHeader))
}

func TestRequestLogging_ServerErrorLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(logger.NewWithWriter("catalog", "info", &buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "ERROR", lines[0]["level"])
}

func TestRequestLogger_EnrichesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("catalog", "info", &buf)

	var ctxLogger *slog.Logger
	chain := RequestLogging(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))(
		Identity(RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctxLogger = logger.FromContext(r.Context())
			ctxLogger.Info("handler log")
		}))))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "corr-9")
	req.Header.Set(UserHeader, "42")
	chain.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, ctxLogger)
	lines := logLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "corr-9", lines[0]["correlation_id"])
	assert.Equal(t, "42", lines[0]["user_id"])
}

func TestRecovery_ReturnsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(logger.NewWithWriter("catalog", "info", &buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("nil map")
		}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), `"INTERNAL_ERROR"`)
	assert.Contains(t, buf.String(), "panic recovered")
}
