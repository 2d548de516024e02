package observability

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHandlerServesMetricsAndHealth(t *testing.T) {
	Execution().ObserveOperation("Transfer", "SUCCESS", 100_000, time.Millisecond)
	Execution().ObserveBlock(errors.New("boom"), time.Millisecond)
	Events().RecordEvent("transfer")

	srv := httptest.NewServer(Handler("test"))
	defer srv.Close()

	code, body := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body)

	code, body = get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `mcash_execution_operations_total{code="SUCCESS",operation="Transfer"}`)
	require.Contains(t, body, "mcash_execution_fees_burned_total")
	require.Contains(t, body, `mcash_events_emitted_total{type="transfer"}`)

	code, _ = get(t, srv, "/missing")
	require.Equal(t, http.StatusNotFound, code)
}
