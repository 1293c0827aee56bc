package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	httpHandler "fairsplit/internal/adapter/http/handler"
	"fairsplit/internal/adapter/storage/memory"
	redisStorage "fairsplit/internal/adapter/storage/redis"
	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"
	"fairsplit/internal/service"
	"fairsplit/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires the real HTTP layer, middleware, services and Redis stores
// (miniredis) over the in-memory report repository.
type testApp struct {
	server *httptest.Server
	redis  *miniredis.Miniredis
	token  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	log := logger.NewWithWriter("error", io.Discard)

	policy := domain.DefaultSplitPolicy()
	splitSvc := service.NewSplitService(policy)
	harnessSvc := service.NewHarnessService(splitSvc, policy, log)
	reportSvc := service.NewReportService(
		harnessSvc, policy, memory.NewReportRepo(), redisStorage.NewReportCache(rdb), memory.Transactor{}, time.Hour, log,
	)
	tokenSvc := service.NewJWTTokenService("test-jwt-secret-key-32bytes!!", time.Hour, "fairsplit-test")

	token, _, err := tokenSvc.Generate("ci-operator")
	require.NoError(t, err)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Splitter:       splitSvc,
		ReportSvc:      reportSvc,
		HarnessSvc:     harnessSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: []ports.HealthChecker{memory.HealthCheck{}, redisStorage.NewHealthCheck(rdb)},
		RunDefaults:    domain.HarnessConfig{Trials: 50, Workers: 2},
		MaxTrials:      5000,
		Logger:         log,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = rdb.Close()
		mr.Close()
	})

	return &testApp{server: server, redis: mr, token: token}
}

func (app *testApp) do(t *testing.T, method, path string, body interface{}, token string) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, app.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])

	app.redis.Close()
	resp, body = app.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
}

func TestRouter_Split(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/v1/splits",
		map[string]interface{}{"amount": "100.01", "recipients": 4, "scale": 2}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "600", resp.Header.Get("X-RateLimit-Limit"))

	data := body["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{"25.01", "25.00", "25.00", "25.00"}, data["shares"])

	resp, body = app.do(t, http.MethodPost, "/api/v1/splits",
		map[string]interface{}{"amount": "-7", "recipients": 2, "scale": 0}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{"-3", "-4"}, body["data"].(map[string]interface{})["shares"])

	resp, body = app.do(t, http.MethodPost, "/api/v1/splits",
		map[string]interface{}{"amount": "10", "recipients": 0, "scale": 2}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "SPL_001", body["error_code"])
}

func TestRouter_RunsRequireToken(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/v1/runs", map[string]interface{}{}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "AUTH_003", body["error_code"])

	resp, _ = app.do(t, http.MethodPost, "/api/v1/runs", map[string]interface{}{}, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RunLifecycle(t *testing.T) {
	app := newTestApp(t)
	req := map[string]interface{}{"seed": 42, "trials": 60}

	resp, body := app.do(t, http.MethodPost, "/api/v1/runs", req, app.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	run := body["data"].(map[string]interface{})
	assert.Equal(t, true, run["ok"])
	assert.Equal(t, float64(60), run["executed"])
	assert.Equal(t, float64(42), run["seed"])
	runID := run["run_id"].(string)

	resp, body = app.do(t, http.MethodGet, "/api/v1/runs/"+runID, nil, app.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, runID, body["data"].(map[string]interface{})["run_id"])

	// A seeded rerun of the same configuration is served from the cache.
	resp, body = app.do(t, http.MethodPost, "/api/v1/runs", req, app.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, runID, body["data"].(map[string]interface{})["run_id"])

	resp, body = app.do(t, http.MethodGet, "/api/v1/runs/00000000-0000-0000-0000-000000000000", nil, app.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "RUN_001", body["error_code"])

	resp, _ = app.do(t, http.MethodPost, "/api/v1/runs", map[string]interface{}{"trials": 9000}, app.token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_Replay(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.do(t, http.MethodPost, "/api/v1/replays",
		map[string]interface{}{"seed": 42, "strategy": "monetary", "index": 3}, app.token)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	tc := body["data"].(map[string]interface{})["case"].(map[string]interface{})
	assert.Equal(t, float64(3), tc["index"])
	assert.Equal(t, "monetary", tc["strategy"])
	assert.Equal(t, "PASS", tc["outcome"].(map[string]interface{})["status"])

	resp, again := app.do(t, http.MethodPost, "/api/v1/replays",
		map[string]interface{}{"seed": 42, "strategy": "monetary", "index": 3}, app.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, tc["input"], again["data"].(map[string]interface{})["case"].(map[string]interface{})["input"])
}

func TestRouter_RunRateLimit(t *testing.T) {
	app := newTestApp(t)
	req := map[string]interface{}{"seed": 7, "trials": 5}

	for i := 0; i < 10; i++ {
		resp, _ := app.do(t, http.MethodPost, "/api/v1/runs", req, app.token)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "request %d", i)
	}

	resp, body := app.do(t, http.MethodPost, "/api/v1/runs", req, app.token)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_001", body["error_code"])
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Splits are limited separately.
	resp, _ = app.do(t, http.MethodPost, "/api/v1/splits",
		map[string]interface{}{"amount": "1", "recipients": 1, "scale": 0}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ConcurrentSplits(t *testing.T) {
	app := newTestApp(t)

	const n = 40
	var wg sync.WaitGroup
	statuses := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, _ := json.Marshal(map[string]interface{}{"amount": fmt.Sprintf("%d.37", i), "recipients": 3, "scale": 2})
			resp, err := http.Post(app.server.URL+"/api/v1/splits", "application/json", bytes.NewReader(b))
			if err != nil {
				return
			}
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	for i, status := range statuses {
		assert.Equal(t, http.StatusOK, status, "request %d", i)
	}
}
