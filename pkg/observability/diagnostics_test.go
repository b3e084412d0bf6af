package observability_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/redblack/pkg/observability"
	"github.com/Sumatoshi-tech/redblack/pkg/rbtree"
)

func probe(t *testing.T, handler http.Handler) (int, string, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	var body map[string]string

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return rec.Code, body["status"], rec.Header().Get("Content-Type")
}

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	code, status, contentType := probe(t, observability.HealthHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", status)
	assert.Equal(t, "application/json", contentType)
}

func TestReadyHandler(t *testing.T) {
	t.Parallel()

	pass := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("tree invalid") }

	code, status, _ := probe(t, observability.ReadyHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", status)

	code, status, _ = probe(t, observability.ReadyHandler(pass, pass))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", status)

	code, status, _ = probe(t, observability.ReadyHandler(pass, fail))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", status)
}

func TestDiagnosticsServer_RequiresMetrics(t *testing.T) {
	t.Parallel()

	_, err := observability.NewDiagnosticsServer(context.Background(), "127.0.0.1:0", nil, observability.Discard())
	require.ErrorIs(t, err, observability.ErrNoMetricsHandler)
}

func TestDiagnosticsServer_ServesEndpoints(t *testing.T) {
	t.Parallel()

	cfg := observability.DefaultConfig()
	cfg.PrometheusExport = true
	cfg.LogOutput = io.Discard

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	tm, err := observability.NewTreeMetrics(providers.Meter)
	require.NoError(t, err)

	tree := rbtree.New[int]()
	for v := range 10 {
		tree.Insert(v)
	}

	tm.Record(context.Background(), tree.Stats(), tree.Height(), 0)

	srv, err := observability.NewDiagnosticsServer(context.Background(), "127.0.0.1:0",
		providers.MetricsHandler, observability.Discard())
	require.NoError(t, err)

	t.Cleanup(func() { _ = srv.Close(context.Background()) })

	get := func(path string) (int, string) {
		req, reqErr := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+srv.Addr()+path, http.NoBody)
		require.NoError(t, reqErr)

		resp, getErr := http.DefaultClient.Do(req)
		require.NoError(t, getErr)

		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		require.NoError(t, readErr)

		return resp.StatusCode, string(body)
	}

	code, _ := get("/healthz")
	assert.Equal(t, http.StatusOK, code)

	code, _ = get("/readyz")
	assert.Equal(t, http.StatusOK, code)

	code, body := get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "rbtree_inserts_total")
}
