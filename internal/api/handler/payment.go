package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/api/middleware"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateOrder 创建积分套餐订单
// POST /api/v1/payment/order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	resp, err := h.paymentService.CreateOrder(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// Verify 校验支付签名并加积分
// POST /api/v1/payment/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "orderId, paymentId and signature are required")
		return
	}

	resp, err := h.paymentService.Verify(c.Request.Context(), middleware.GetIdentity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Payment verified", resp)
}
