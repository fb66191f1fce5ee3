package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/api/middleware"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

type IntegrationHandler struct {
	integrationService *service.IntegrationService
	publicURL          string
}

func NewIntegrationHandler(integrationService *service.IntegrationService, publicURL string) *IntegrationHandler {
	return &IntegrationHandler{
		integrationService: integrationService,
		publicURL:          strings.TrimRight(publicURL, "/"),
	}
}

// Connect 返回 Twitter 授权地址，前端自行跳转
// GET /api/v1/integrations/twitter/connect?redirect=/settings
func (h *IntegrationHandler) Connect(c *gin.Context) {
	redirect := safeRedirectPath(c.Query("redirect"))
	if redirect == "" {
		redirect = "/settings"
	}

	resp, err := h.integrationService.ConnectURL(c.Request.Context(), middleware.GetIdentity(c), redirect)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// Callback Twitter 授权回调，完成后跳回前端
// GET /api/v1/integrations/twitter/callback
func (h *IntegrationHandler) Callback(c *gin.Context) {
	if c.Query("error") != "" {
		response.ParamError(c, "Twitter authorization was denied")
		return
	}

	redirect, err := h.integrationService.Callback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		respondError(c, err)
		return
	}

	if h.publicURL == "" {
		response.SuccessWithMessage(c, "Twitter account connected", nil)
		return
	}
	c.Redirect(http.StatusFound, h.publicURL+redirect+"?twitter=connected")
}

// Post 发推
// POST /api/v1/integrations/twitter/post
func (h *IntegrationHandler) Post(c *gin.Context) {
	var req dto.TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, service.ErrTweetInvalid.Error())
		return
	}

	resp, err := h.integrationService.Post(c.Request.Context(), middleware.GetIdentity(c), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Posted to Twitter", resp)
}

// Unlink 解除 Twitter 绑定
// DELETE /api/v1/integrations/twitter
func (h *IntegrationHandler) Unlink(c *gin.Context) {
	if err := h.integrationService.Unlink(middleware.GetIdentity(c)); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Twitter account disconnected", nil)
}
