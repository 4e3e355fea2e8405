package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fyers-trader/internal/errors"
)

// broker is a minimal stand-in for the API, data and auth hosts.
func newBroker(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XB12345-100:token", r.Header.Get("Authorization"))
		io.WriteString(w, `{"s":"ok","code":200,"message":"","data":{"name":"Test User","fy_id":"XB12345","email_id":"test@example.com","PAN":"ABCDE1234F","mobile_number":"9999999999","totp":true,"pwd_to_expire":30,"ddpi_enabled":false,"mtf_enabled":false}}`)
	})
	mux.HandleFunc("/data/history", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"ok","code":200,"message":"","candles":[[1728359100,800.5,805,799,804,12000],[1728445500,804,810,802,808.25,15000]]}`)
	})
	mux.HandleFunc("/api/v3/orders/sync", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"ok","code":1101,"message":"Order submitted","id":"24100800123456"}`)
	})
	mux.HandleFunc("/api/v3/positions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"ok","code":201,"message":"counter orders placed"}`)
	})
	mux.HandleFunc("/api/v3/validate-authcode", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abc123", body["code"])
		io.WriteString(w, `{"s":"ok","code":200,"message":"","access_token":"fresh-access","refresh_token":"fresh-refresh"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	for _, k := range []string{"FYERS_CLIENT_ID", "FYERS_SECRET_KEY", "FYERS_REDIRECT_URI", "FYERS_ACCESS_TOKEN", "FYERS_REFRESH_TOKEN", "FYERS_PIN"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[api]
base_url = "`+baseURL+`/api/v3"
data_base_url = "`+baseURL+`/data"
auth_base_url = "`+baseURL+`/api/v3"

[log]
level = "error"
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.toml"), []byte(`
[fyers]
client_id = "XB12345-100"
secret_key = "secret"
redirect_uri = "https://example.com/callback"
access_token = "token"
`), 0600))
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append(args, "--config", dir))
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileCommand(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	out, err := run(t, dir, "profile", "--json")
	require.NoError(t, err)

	var p map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Test User", p["name"])
	assert.Equal(t, "XB12345", p["fy_id"])
}

func TestHistoryCommandSaveAndCached(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	out, err := run(t, dir, "history", "NSE:SBIN-EQ", "--from", "2024-10-08", "--to", "2024-10-10", "-r", "D", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "08-Oct-2024 09:15:00")
	assert.Contains(t, out, "2 candles")

	out, err = run(t, dir, "history", "NSE:SBIN-EQ", "--from", "2024-10-08", "--to", "2024-10-10", "-r", "D", "--cached", "--json")
	require.NoError(t, err)
	var candles []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &candles))
	require.Len(t, candles, 2)
	assert.Equal(t, 808.25, candles[1]["close"])

	_, err = run(t, dir, "history", "NSE:TCS-EQ", "--from", "2024-10-08", "-r", "D", "--cached")
	assert.True(t, apperrors.Is(err, apperrors.ErrDataNotFound))
}

func TestHistoryCachedWarnsWhenStale(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	_, err := run(t, dir, "history", "NSE:SBIN-EQ", "--from", "2024-10-08", "--to", "2024-10-10", "-r", "D", "--save")
	require.NoError(t, err)

	out, err := run(t, dir, "history", "NSE:SBIN-EQ", "--from", "2024-10-08", "--to", "2024-10-10", "-r", "D", "--cached")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored candles end at 09-Oct-2024 09:15:00")

	out, err = run(t, dir, "history", "NSE:SBIN-EQ", "--from", "2024-10-08", "--to", "2024-10-09 09:15", "-r", "D", "--cached")
	require.NoError(t, err)
	assert.NotContains(t, out, "Stored candles end at")
	assert.Contains(t, out, "2 candles")
}

func TestOrderPlacePreviewShowsPrices(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	out, err := run(t, dir, "order", "place", "NSE:SBIN-EQ", "10",
		"--type", "stoplimit", "--limit", "123456.5", "--stop", "123400", "--product", "BO",
		"--stop-loss", "5", "--take-profit", "12.75")
	require.NoError(t, err)
	assert.Contains(t, out, "Limit:    ₹1,23,456.50")
	assert.Contains(t, out, "Stop:     ₹1,23,400.00")
	assert.Contains(t, out, "SL:       ₹5.00")
	assert.Contains(t, out, "Target:   ₹12.75")
	assert.Contains(t, out, "Order ID: 24100800123456")
}

func TestOrderPlacePreviewOmitsUnsetPrices(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	out, err := run(t, dir, "order", "place", "NSE:SBIN-EQ", "10")
	require.NoError(t, err)
	assert.NotContains(t, out, "Limit:")
	assert.NotContains(t, out, "SL:")
}

func TestHistoryCommandRejectsResolution(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	_, err := run(t, dir, "history", "NSE:SBIN-EQ", "--from", "2024-10-08", "-r", "7")
	assert.True(t, apperrors.Is(err, apperrors.ErrInputValidation))
}

func TestOrderPlaceRejectsQuantity(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	_, err := run(t, dir, "order", "place", "NSE:SBIN-EQ", "0")
	assert.True(t, apperrors.Is(err, apperrors.ErrInputValidation))

	_, err = run(t, dir, "order", "place", "NSE:SBIN-EQ", "1", "--type", "bracket")
	assert.True(t, apperrors.Is(err, apperrors.ErrInputValidation))
}

func TestExitAllCommand(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	out, err := run(t, dir, "positions", "exit-all", "--yes", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"pending_counter_order"}`, out)
}

func TestExitAllCommandAborts(t *testing.T) {
	dir := writeConfig(t, "http://127.0.0.1:1")

	out, err := run(t, dir, "positions", "exit-all")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")
}

func TestAuthURLCommand(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	out, err := run(t, dir, "auth", "url", "--state", "xyz", "--json")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "xyz", resp["state"])
	assert.True(t, strings.HasPrefix(resp["url"], srv.URL+"/api/v3/generate-authcode?"))
	assert.Contains(t, resp["url"], "client_id=XB12345-100")
}

func TestAuthExchangeSavesTokens(t *testing.T) {
	srv := newBroker(t)
	dir := writeConfig(t, srv.URL)

	_, err := run(t, dir, "auth", "exchange", "https://example.com/callback?s=ok&auth_code=abc123&state=xyz")
	require.NoError(t, err)

	out, err := run(t, dir, "auth", "status", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"client_id":"XB12345-100","has_access_token":true,"has_refresh_token":true}`, out)

	data, err := os.ReadFile(filepath.Join(dir, "credentials.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "fresh-access")
}

func TestProfileRequiresSession(t *testing.T) {
	dir := writeConfig(t, "http://127.0.0.1:1")
	t.Setenv("FYERS_ACCESS_TOKEN", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.toml"), []byte("[fyers]\nclient_id = \"XB12345-100\"\n"), 0600))

	_, err := run(t, dir, "profile")
	assert.True(t, apperrors.Is(err, apperrors.ErrNotAuthenticated))
}
