package handler

import (
	"github.com/gin-gonic/gin"

	"novabank/internal/adapter/http/dto"
	"novabank/internal/core/ports"
	"novabank/pkg/response"
)

// AdvisorHandler serves the financial assistant endpoint.
type AdvisorHandler struct {
	advisorSvc ports.AdvisorService
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(advisorSvc ports.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{advisorSvc: advisorSvc}
}

// GetAdvice handles GET /api/v1/advice. Upstream failures degrade to
// canned advice inside the service, so this endpoint only errors on
// internal faults.
func (h *AdvisorHandler) GetAdvice(c *gin.Context) {
	advice, err := h.advisorSvc.Advise(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.AdviceResponse{
		Summary: advice.Summary,
		Tips:    advice.Tips,
	})
}
