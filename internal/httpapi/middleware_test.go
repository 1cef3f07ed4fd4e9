package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	todolog "todoapi/internal/log"
)

func TestRequestIDIsMintedAndEchoed(t *testing.T) {
	h := newTestHandler(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	minted := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(minted)
	require.NoError(t, err, "expected a uuid request id, got %q", minted)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "client-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "client-123", rec.Header().Get(RequestIDHeader))
}

func TestAccessLogRecordsRequests(t *testing.T) {
	var buf bytes.Buffer
	h := newTestHandler(t, WithLogger(todolog.New(&buf, todolog.LevelInfo)))

	req := httptest.NewRequest(http.MethodGet, "/todos/99", nil)
	req.Header.Set(RequestIDHeader, "trace-me")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	require.Contains(t, out, "msg=request")
	require.Contains(t, out, "status=404")
	require.Contains(t, out, "path=/todos/99")
	require.Contains(t, out, "request_id=trace-me")
}

func TestStatusRecorderDefaultsTo200(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	require.Equal(t, http.StatusOK, rec.code())
	_, _ = rec.Write([]byte("hi"))
	rec.WriteHeader(http.StatusTeapot)
	require.Equal(t, http.StatusOK, rec.code())
	require.Equal(t, 2, rec.bytes)
}
