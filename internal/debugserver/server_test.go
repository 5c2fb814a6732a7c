package debugserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chatlead/agent-console/internal/api"
)

func newHealthzRecorder(t *testing.T, backend http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	client := api.New(api.Options{BaseURL: backendSrv.URL})
	srv := New("127.0.0.1:0", client, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.httpServer.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthzReportsBackendOK(t *testing.T) {
	rr := newHealthzRecorder(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok": true, "build": "2026.08.1"}`))
	})

	require.Equal(t, http.StatusOK, rr.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, "ok", payload["console"])
	require.Equal(t, "ok", payload["backend"])
	require.Equal(t, "2026.08.1", payload["build"])
}

func TestHealthzReportsBackendUnreachable(t *testing.T) {
	rr := newHealthzRecorder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, "unreachable", payload["backend"])
}

func TestMetricsEndpointServes(t *testing.T) {
	client := api.New(api.Options{BaseURL: "http://127.0.0.1:0"})
	srv := New("127.0.0.1:0", client, nil)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	srv.httpServer.Handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "go_goroutines")
}
