package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/api/middleware"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

type CreditsHandler struct {
	creditService *service.CreditService
}

func NewCreditsHandler(creditService *service.CreditService) *CreditsHandler {
	return &CreditsHandler{
		creditService: creditService,
	}
}

// Get 当前余额和最近流水
// GET /api/v1/user/credits
func (h *CreditsHandler) Get(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	if !ident.Valid() {
		response.AuthError(c, "")
		return
	}

	info, err := h.creditService.History(ident.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, info)
}
