package public

import (
	"errors"

	"github.com/crypto-navi/api/internal/http/response"
	"github.com/crypto-navi/api/internal/service"

	"github.com/gin-gonic/gin"
)

// CalculateFees 取引所ごとの手数料内訳を計算する
func (h *Handler) CalculateFees(c *gin.Context) {
	var input service.FeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	breakdown, err := h.ToolsService.CalculateFees(input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidExchange):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		case errors.Is(err, service.ErrInvalidSimulation):
			respondError(c, response.CodeBadRequest, "error.simulation_invalid", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.exchange_not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.fee_calc_failed", err)
		}
		return
	}

	response.Success(c, breakdown)
}

// SimulateInvestment 積立シミュレーションを実行する
func (h *Handler) SimulateInvestment(c *gin.Context) {
	var input service.SimulationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.ToolsService.Simulate(input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSimulation) {
			respondError(c, response.CodeBadRequest, "error.simulation_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.simulation_failed", err)
		return
	}

	response.Success(c, result)
}
