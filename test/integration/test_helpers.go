//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-admin-panel/internal/app"
	"go-admin-panel/internal/config"
	"go-admin-panel/internal/model"
)

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:              "8080",
		ServerReadTimeout:       15 * time.Second,
		ServerReadHeaderTimeout: 5 * time.Second,
		ServerWriteTimeout:      30 * time.Second,
		ServerIdleTimeout:       120 * time.Second,
		RequestTimeout:          10 * time.Second,
		ShutdownTimeout:         5 * time.Second,
		DataSource:              config.DataSourceMemory,
		CORSOrigins:             []string{"*"},
		RateLimitRPM:            1000,
		DefaultPageSize:         10,
		MaxPageSize:             100,
		OverviewConcurrency:     4,
		SeedOnStart:             true,
	}
}

// newServer boots the whole application on the memory source with sample
// data loaded and its background workers running.
func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	a, err := app.New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	a.Start(ctx)

	server := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		server.Close()
		cancel()
		a.Close()
	})

	return server
}

func doRequest(t *testing.T, method string, url string, body any, header http.Header) *http.Response {
	t.Helper()

	var payload io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, payload)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeRows(t *testing.T, env envelope) []model.Row {
	t.Helper()

	var rows []model.Row
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	return rows
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}
