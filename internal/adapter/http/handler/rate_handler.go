package handler

import (
	"github.com/gin-gonic/gin"

	"novabank/internal/adapter/http/dto"
	"novabank/internal/core/domain"
	"novabank/internal/core/ports"
	"novabank/pkg/response"
)

// RateHandler serves the current exchange rate table.
type RateHandler struct {
	rateSvc ports.RateService
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateSvc ports.RateService) *RateHandler {
	return &RateHandler{rateSvc: rateSvc}
}

// GetRates handles GET /api/v1/rates.
func (h *RateHandler) GetRates(c *gin.Context) {
	table := h.rateSvc.Current()

	rates := make(map[string]string, len(table))
	for cur, rate := range table {
		rates[string(cur)] = rate.String()
	}

	response.OK(c, dto.RatesResponse{
		Base:  string(domain.CurrencyUSD),
		Rates: rates,
	})
}
