package handler

import (
	"errors"
	"fmt"
	"io"

	"fairsplit/internal/adapter/http/dto"
	"fairsplit/internal/core/domain"
	"fairsplit/internal/core/ports"
	"fairsplit/pkg/apperror"
	"fairsplit/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RunHandler serves harness runs, stored reports and case replays.
type RunHandler struct {
	reportSvc  ports.ReportService
	harnessSvc ports.HarnessService
	defaults   domain.HarnessConfig
	maxTrials  int
}

// NewRunHandler creates a new RunHandler. defaults fill fields a request
// leaves out; maxTrials <= 0 means no cap.
func NewRunHandler(reportSvc ports.ReportService, harnessSvc ports.HarnessService, defaults domain.HarnessConfig, maxTrials int) *RunHandler {
	return &RunHandler{reportSvc: reportSvc, harnessSvc: harnessSvc, defaults: defaults, maxTrials: maxTrials}
}

// CreateRun handles POST /api/v1/runs. An empty body runs the defaults.
func (h *RunHandler) CreateRun(c *gin.Context) {
	var req dto.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	cfg := req.Apply(h.defaults)
	if h.maxTrials > 0 && cfg.Trials > h.maxTrials {
		response.Error(c, apperror.Validation(fmt.Sprintf("trials must not exceed %d", h.maxTrials)))
		return
	}

	report, err := h.reportSvc.Run(c.Request.Context(), cfg)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.NewRunResponse(report))
}

// GetRun handles GET /api/v1/runs/:id.
func (h *RunHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("run id must be a UUID"))
		return
	}

	report, err := h.reportSvc.GetReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewRunResponse(report))
}

// Replay handles POST /api/v1/replays.
func (h *RunHandler) Replay(c *gin.Context) {
	var req dto.ReplayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	result, err := h.harnessSvc.Replay(c.Request.Context(), h.defaults, domain.ReplayRequest{
		Seed:     *req.Seed,
		Strategy: domain.Strategy(req.Strategy),
		Index:    req.Index,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}
