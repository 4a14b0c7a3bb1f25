package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/capital/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("CST", "cli-cst")
		w.Header().Set("X-SECURITY-TOKEN", "cli-sec")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/positions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"positions":[{"position":{"size":10,"direction":"BUY","level":2.764,"upl":-0.05,"currency":"USD"},"market":{"epic":"NATURALGAS","instrumentName":"Natural Gas"}}]}`)
	})
	mux.HandleFunc("/history/transactions", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "type=TRADE&from=2022-01-01T00:00:00&to=2022-01-31T00:00:00" {
			http.Error(w, "bad query "+r.URL.RawQuery, http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"transactions":[{"id":1,"amount":100}]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()

	cfg := config.Default()
	cfg.API.BaseURL = baseURL
	cfg.API.APIKey = "key"
	cfg.API.Identifier = "id"
	cfg.API.Password = "pw"
	cfg.Log.Level = "error"

	path := filepath.Join(t.TempDir(), "capital.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "capital version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.yaml")

	out, err := run(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = run(t, "config", "validate", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.api_key is required")

	valid := writeConfig(t, "http://localhost/api/")
	out, err = run(t, "config", "validate", "--file", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "every 30s")
}

func TestLogin(t *testing.T) {
	srv := fakeAPI(t)
	path := writeConfig(t, srv.URL+"/")

	out, err := run(t, "login", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Session created")
	assert.NotContains(t, out, "missing")
}

func TestPositionsTable(t *testing.T) {
	srv := fakeAPI(t)
	path := writeConfig(t, srv.URL+"/")

	out, err := run(t, "positions", "--config", path, "--table=true")
	require.NoError(t, err)
	assert.Contains(t, out, "NATURALGAS")
	assert.Contains(t, out, "Natural Gas")
	assert.Contains(t, out, "BUY")

	out, err = run(t, "positions", "--config", path, "--table=false")
	require.NoError(t, err)
	assert.Contains(t, out, `"epic": "NATURALGAS"`)
}

func TestTransactionsRange(t *testing.T) {
	srv := fakeAPI(t)
	path := writeConfig(t, srv.URL+"/")

	out, err := run(t, "transactions", "--config", path, "--from", "2022-01-01", "--to", "2022-01-31")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"amount":100}]`, out)

	_, err = run(t, "transactions", "--config", path, "--from", "Jan 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")
}

func TestTransactionsFailure(t *testing.T) {
	srv := fakeAPI(t)
	path := writeConfig(t, srv.URL+"/")

	_, err := run(t, "transactions", "--config", path, "--from", "2023-01-01", "--to", "2023-01-02")
	require.Error(t, err)
	assert.Equal(t, "An error occurred while fetching transactions.", err.Error())
}
