package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ValentinKolb/tinycfg/lib/common"
	"github.com/ValentinKolb/tinycfg/lib/document"
	"github.com/ValentinKolb/tinycfg/lib/stats"
	"github.com/ValentinKolb/tinycfg/lib/store"
	"github.com/ValentinKolb/tinycfg/lib/store/fstore"
	"github.com/ValentinKolb/tinycfg/lib/volume"
	"github.com/gin-gonic/gin"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() store.IConfigStore {
	return fstore.NewConfigStore(volume.NewMemVolume(volume.Options{}), document.NewJSONCodec())
}

func setupTestServer(t *testing.T) (*ConfigServer, store.IConfigStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := newTestStore()
	require.True(t, s.Start())
	t.Cleanup(func() { s.Stop() })

	config := common.ServerConfig{Endpoint: "127.0.0.1:0"}
	return NewConfigServer(config, s, stats.NewCollector("tinycfg_test")), s
}

func do(t *testing.T, srv *ConfigServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), "body: %s", w.Body.String())
	return m
}

func TestSetAndGet(t *testing.T) {
	srv, s := setupTestServer(t)

	w := do(t, srv, http.MethodPut, "/config/counter", `{"value": 42}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "int", decode(t, w)["type"])

	w = do(t, srv, http.MethodPut, "/config/ratio", `{"value": 2.0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "float", decode(t, w)["type"])

	w = do(t, srv, http.MethodPut, "/config/name", `{"value": "bob"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, int64(42), s.GetInt("counter", 0))
	assert.Equal(t, 2.0, s.GetFloat("ratio", 0))
	assert.Equal(t, "bob", s.GetString("name", ""))

	w = do(t, srv, http.MethodGet, "/config/counter", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "counter", body["key"])
	assert.Equal(t, float64(42), body["value"])
	assert.Equal(t, "int", body["type"])

	w = do(t, srv, http.MethodGet, "/config/counter?type=string", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", decode(t, w)["value"])

	w = do(t, srv, http.MethodGet, "/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"counter":42,"name":"bob","ratio":2.0}`, w.Body.String())
}

func TestGetMissing(t *testing.T) {
	srv, _ := setupTestServer(t)

	w := do(t, srv, http.MethodGet, "/config/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/config/missing?type=int", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, srv, http.MethodGet, "/config/missing?type=int&fallback=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), decode(t, w)["value"])

	w = do(t, srv, http.MethodGet, "/config/missing?type=int&fallback=010", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(10), decode(t, w)["value"])

	w = do(t, srv, http.MethodGet, "/config/missing?fallback=x", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "x", decode(t, w)["value"])
}

func TestBadRequests(t *testing.T) {
	srv, _ := setupTestServer(t)

	for name, tc := range map[string]struct {
		method, path, body string
	}{
		"invalid type":     {http.MethodGet, "/config/a?type=bool&fallback=1", ""},
		"invalid fallback": {http.MethodGet, "/config/a?type=int&fallback=abc", ""},
		"hex fallback":     {http.MethodGet, "/config/a?type=int&fallback=0x10", ""},
		"empty body":       {http.MethodPut, "/config/a", ""},
		"nested value":     {http.MethodPut, "/config/a", `{"value": {"x": 1}}`},
		"bool value":       {http.MethodPut, "/config/a", `{"value": true}`},
		"missing value":    {http.MethodPut, "/config/a", `{"other": 1}`},
		"missing keys":     {http.MethodPost, "/config/delete", `{}`},
		"missing bytes":    {http.MethodPut, "/max-size", `{}`},
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, "bad_request", decode(t, w)["error"])
		})
	}
}

func TestDelete(t *testing.T) {
	srv, s := setupTestServer(t)
	require.True(t, s.SetInt("a", 1))
	require.True(t, s.SetInt("b", 2))
	require.True(t, s.SetInt("c", 3))

	w := do(t, srv, http.MethodDelete, "/config/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["deleted"])

	w = do(t, srv, http.MethodDelete, "/config/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["deleted"])

	w = do(t, srv, http.MethodPost, "/config/delete", `{"keys": ["b", "missing"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["deleted"])

	assert.Equal(t, `{"c":3}`, s.GetAll(""))
}

func TestResetAndMaxSize(t *testing.T) {
	srv, s := setupTestServer(t)
	require.True(t, s.SetString("name", "bob"))

	w := do(t, srv, http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "{}", s.GetAll(""))

	w = do(t, srv, http.MethodPut, "/max-size", `{"bytes": 4}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "size_too_small", decode(t, w)["error"])

	w = do(t, srv, http.MethodPut, "/max-size", `{"bytes": 5000}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(t, srv, http.MethodPut, "/max-size", `{"bytes": 20}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(20), decode(t, w)["bytes"])

	w = do(t, srv, http.MethodGet, "/max-size", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(20), decode(t, w)["bytes"])

	w = do(t, srv, http.MethodPut, "/config/big", `{"value": "`+strings.Repeat("x", 100)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	body := decode(t, w)
	assert.Equal(t, "size_too_large", body["error"])
	assert.Equal(t, "Configuration file size too large", body["message"])
}

func TestNotRunning(t *testing.T) {
	srv, s := setupTestServer(t)
	require.True(t, s.Stop())

	for _, path := range []string{"/config", "/config/a"} {
		w := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.Equal(t, "not_running", decode(t, w)["error"])
	}

	w := do(t, srv, http.MethodPut, "/config/a", `{"value": 1}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetrics(t *testing.T) {
	srv, _ := setupTestServer(t)
	do(t, srv, http.MethodPut, "/config/a", `{"value": 1}`)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tinycfg_test_document_bytes_max")
}

func TestMetricsWithoutCollector(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore()
	srv := NewConfigServer(common.ServerConfig{}, s, nil)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore()
	srv := NewConfigServer(common.ServerConfig{Endpoint: "127.0.0.1:0"}, s, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.ServeContext(ctx))

	// the store was started and stopped again
	assert.False(t, s.Stop())
	assert.Equal(t, store.KindNotRunning, s.LastError())
}

func TestServeContextStartFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := fstore.NewConfigStore(volume.NewMemVolume(volume.Options{ReadOnly: true}), document.NewJSONCodec())
	srv := NewConfigServer(common.ServerConfig{Endpoint: "127.0.0.1:0"}, s, nil)

	err := srv.ServeContext(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCreateFailed)
}

// recordingLogger keeps every formatted line regardless of level
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) record(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) SetLevel(logger.LogLevel)                    {}
func (l *recordingLogger) Debugf(format string, args ...interface{})   { l.record(format, args...) }
func (l *recordingLogger) Infof(format string, args ...interface{})    { l.record(format, args...) }
func (l *recordingLogger) Warningf(format string, args ...interface{}) { l.record(format, args...) }
func (l *recordingLogger) Errorf(format string, args ...interface{})   { l.record(format, args...) }
func (l *recordingLogger) Panicf(format string, args ...interface{})   { l.record(format, args...) }

func TestConfigLoggedVerbatim(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &recordingLogger{}
	prev := Logger
	Logger = rec
	t.Cleanup(func() { Logger = prev })

	config := common.ServerConfig{
		Endpoint: "127.0.0.1:0",
		Store: common.StoreConfig{
			DataDir:  "/var/lib/100%d",
			FileName: "/cfg%s.json",
		},
	}
	NewConfigServer(config, newTestStore(), nil)

	logged := strings.Join(rec.lines, "\n")
	assert.Contains(t, logged, "/var/lib/100%d")
	assert.Contains(t, logged, "/cfg%s.json")
	assert.NotContains(t, logged, "%!")
}
