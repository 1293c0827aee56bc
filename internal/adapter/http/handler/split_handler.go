package handler

import (
	"fairsplit/internal/adapter/http/dto"
	"fairsplit/internal/core/ports"
	"fairsplit/pkg/apperror"
	"fairsplit/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SplitHandler serves single splits.
type SplitHandler struct {
	splitter ports.Splitter
}

// NewSplitHandler creates a new SplitHandler.
func NewSplitHandler(splitter ports.Splitter) *SplitHandler {
	return &SplitHandler{splitter: splitter}
}

// Split handles POST /api/v1/splits.
func (h *SplitHandler) Split(c *gin.Context) {
	var req dto.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("amount is not a decimal number"))
		return
	}

	shares, err := h.splitter.Split(amount, req.Recipients, *req.Scale)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SplitResponse{
		Amount:     amount.String(),
		Recipients: req.Recipients,
		Scale:      *req.Scale,
		Shares:     shares.Strings(*req.Scale),
	})
}
