package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports/mocks"
	"fairsplit/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// --- Split Handler Tests ---

func TestSplit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	splitter := mocks.NewMockSplitter(ctrl)
	h := NewSplitHandler(splitter)

	splitter.EXPECT().Split(decimal.RequireFromString("100.01"), 4, int32(2)).Return(domain.ShareSet{
		decimal.RequireFromString("25.01"),
		decimal.RequireFromString("25"),
		decimal.RequireFromString("25"),
		decimal.RequireFromString("25"),
	}, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/splits", `{"amount":"100.01","recipients":4,"scale":2}`)
	h.Split(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "100.01", data["amount"])
	assert.Equal(t, []interface{}{"25.01", "25.00", "25.00", "25.00"}, data["shares"])
}

func TestSplit_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewSplitHandler(mocks.NewMockSplitter(ctrl))

	for _, body := range []string{
		`{}`,
		`{"amount":"1e9","recipients":2,"scale":2}`,
		`{"amount":"10","recipients":2}`,
		`{"amount":10,"recipients":2,"scale":2}`,
		`not json`,
	} {
		c, w := jsonContext(http.MethodPost, "/api/v1/splits", body)
		h.Split(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "VAL_001", decode(t, w)["error_code"], body)
	}
}

func TestSplit_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"zero recipients", apperror.ErrZeroRecipients(), http.StatusBadRequest, apperror.CodeZeroRecipients},
		{"invalid scale", apperror.ErrInvalidScale(19, domain.MaxScale), http.StatusBadRequest, apperror.CodeInvalidScale},
		{"overflow", apperror.ErrScaleOverflow(), http.StatusUnprocessableEntity, apperror.CodeScaleOverflow},
		{"negative", apperror.ErrNegativeAmount(), http.StatusBadRequest, apperror.CodeNegativeAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			splitter := mocks.NewMockSplitter(ctrl)
			splitter.EXPECT().Split(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			c, w := jsonContext(http.MethodPost, "/api/v1/splits", `{"amount":"1","recipients":0,"scale":2}`)
			NewSplitHandler(splitter).Split(c)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode(t, w)["error_code"])
		})
	}
}

// --- Run Handler Tests ---

func testDefaults() domain.HarnessConfig {
	return domain.HarnessConfig{Trials: 100, Workers: 2}
}

func testReport() *domain.Report {
	now := time.Now().UTC()
	return &domain.Report{RunID: uuid.New(), Seed: 5, Trials: 100, Executed: 100, Passed: 100, StartedAt: now, FinishedAt: now.Add(1500 * time.Millisecond)}
}

func TestCreateRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mocks.NewMockReportService(ctrl)
	h := NewRunHandler(reports, mocks.NewMockHarnessService(ctrl), testDefaults(), 10_000)

	report := testReport()
	reports.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, cfg domain.HarnessConfig) (*domain.Report, error) {
			require.NotNil(t, cfg.Seed)
			assert.Equal(t, int64(5), *cfg.Seed)
			assert.Equal(t, 250, cfg.Trials)
			assert.Equal(t, 2, cfg.Workers, "default kept")
			assert.Equal(t, []domain.Strategy{domain.StrategyBoundary}, cfg.Strategies)
			return report, nil
		})

	c, w := jsonContext(http.MethodPost, "/api/v1/runs", `{"seed":5,"trials":250,"strategies":["boundary"]}`)
	h.CreateRun(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, report.RunID.String(), data["run_id"])
	assert.Equal(t, true, data["ok"])
	assert.Equal(t, float64(1500), data["duration_ms"])
}

func TestCreateRun_EmptyBodyUsesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mocks.NewMockReportService(ctrl)
	h := NewRunHandler(reports, mocks.NewMockHarnessService(ctrl), testDefaults(), 0)
	reports.EXPECT().Run(gomock.Any(), testDefaults()).Return(testReport(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/runs", http.NoBody)
	h.CreateRun(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRun_Rejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewRunHandler(mocks.NewMockReportService(ctrl), mocks.NewMockHarnessService(ctrl), testDefaults(), 1000)

	for _, body := range []string{
		`{"trials":5000}`,
		`{"strategies":["fuzzy"]}`,
		`{"invariants":["speed"]}`,
		`{"workers":0}`,
	} {
		c, w := jsonContext(http.MethodPost, "/api/v1/runs", body)
		h.CreateRun(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestCreateRun_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mocks.NewMockReportService(ctrl)
	h := NewRunHandler(reports, mocks.NewMockHarnessService(ctrl), testDefaults(), 0)
	reports.EXPECT().Run(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrDatabaseError(errors.New("down")))

	c, w := jsonContext(http.MethodPost, "/api/v1/runs", `{}`)
	h.CreateRun(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "SYS_001", decode(t, w)["error_code"])
}

func TestGetRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reports := mocks.NewMockReportService(ctrl)
	h := NewRunHandler(reports, mocks.NewMockHarnessService(ctrl), testDefaults(), 0)
	report := testReport()
	missing := uuid.New()

	reports.EXPECT().GetReport(gomock.Any(), report.RunID).Return(report, nil)
	reports.EXPECT().GetReport(gomock.Any(), missing).Return(nil, apperror.ErrNotFound("report"))

	t.Run("found", func(t *testing.T) {
		c, w := jsonContext(http.MethodGet, "/api/v1/runs/"+report.RunID.String(), "")
		c.Params = gin.Params{{Key: "id", Value: report.RunID.String()}}
		h.GetRun(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].(map[string]interface{})
		assert.Equal(t, float64(5), data["seed"])
	})

	t.Run("not found", func(t *testing.T) {
		c, w := jsonContext(http.MethodGet, "/api/v1/runs/"+missing.String(), "")
		c.Params = gin.Params{{Key: "id", Value: missing.String()}}
		h.GetRun(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "RUN_001", decode(t, w)["error_code"])
	})

	t.Run("bad id", func(t *testing.T) {
		c, w := jsonContext(http.MethodGet, "/api/v1/runs/nope", "")
		c.Params = gin.Params{{Key: "id", Value: "nope"}}
		h.GetRun(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	harness := mocks.NewMockHarnessService(ctrl)
	h := NewRunHandler(mocks.NewMockReportService(ctrl), harness, testDefaults(), 0)

	input := domain.NewSplitRequest(1234, 5, 2)
	harness.EXPECT().Replay(gomock.Any(), testDefaults(), domain.ReplayRequest{
		Seed: 0, Strategy: domain.StrategyMonetary, Index: 7,
	}).Return(&domain.ReplayResult{
		Case: domain.TestCase{Seed: 99, Index: 7, Strategy: domain.StrategyMonetary, Input: input, Outcome: domain.Passed()},
	}, nil)

	c, w := jsonContext(http.MethodPost, "/api/v1/replays", `{"seed":0,"strategy":"monetary","index":7}`)
	h.Replay(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	tc := data["case"].(map[string]interface{})
	assert.Equal(t, float64(99), tc["seed"])
	assert.Equal(t, "PASS", tc["outcome"].(map[string]interface{})["status"])

	c, w = jsonContext(http.MethodPost, "/api/v1/replays", `{"strategy":"monetary","index":7}`)
	h.Replay(c)
	assert.Equal(t, http.StatusBadRequest, w.Code, "seed is required")
}

// --- Health and Swagger ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mocks.NewMockHealthChecker(ctrl)
	pg.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))
	pg.EXPECT().Name().Return("postgresql").AnyTimes()
	rd := mocks.NewMockHealthChecker(ctrl)
	rd.EXPECT().Ping(gomock.Any()).Return(nil)
	rd.EXPECT().Name().Return("redis").AnyTimes()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(pg, rd)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "degraded", resp["status"])
	deps := resp["dependencies"].(map[string]interface{})
	assert.Equal(t, "unhealthy", deps["postgresql"].(map[string]interface{})["status"])
	assert.Equal(t, "healthy", deps["redis"].(map[string]interface{})["status"])
}

func TestSwaggerUI(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger", nil)

	SwaggerUI(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "swagger-ui")
	assert.Contains(t, w.Body.String(), "/swagger/spec")
}

func TestSwaggerSpec_Loaded(t *testing.T) {
	SetSwaggerSpec([]byte("openapi: '3.0.0'\ninfo:\n  title: Test"))
	defer SetSwaggerSpec(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger/spec", nil)

	SwaggerSpec(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi")
}

func TestSwaggerSpec_NotLoaded(t *testing.T) {
	SetSwaggerSpec(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/swagger/spec", nil)

	SwaggerSpec(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
