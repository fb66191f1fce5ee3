package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/api/middleware"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

type SettingsHandler struct {
	userService *service.UserService
}

func NewSettingsHandler(userService *service.UserService) *SettingsHandler {
	return &SettingsHandler{
		userService: userService,
	}
}

// GetProfile 获取当前用户信息
// GET /api/v1/user/profile
func (h *SettingsHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, profile)
}

// Get 设置页数据
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.userService.GetSettings(middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, settings)
}

// Update 修改昵称或密码
// POST /api/v1/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateSettings(middleware.GetIdentity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if info == nil {
		response.SuccessWithMessage(c, "Password updated successfully", nil)
		return
	}
	response.SuccessWithMessage(c, "Profile updated successfully", gin.H{"user": info})
}
