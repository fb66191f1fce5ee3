package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/api/middleware"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

type GenerationHandler struct {
	generationService *service.GenerationService
}

func NewGenerationHandler(generationService *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
	}
}

// Generate 提取 URL 内容并生成各平台文案
// POST /api/v1/generate
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "URL is required")
		return
	}

	resp, err := h.generationService.Generate(c.Request.Context(), middleware.GetIdentity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// List 历史记录
// GET /api/v1/generations
func (h *GenerationHandler) List(c *gin.Context) {
	resp, err := h.generationService.List(middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}

// Delete 删除一条历史记录
// DELETE /api/v1/generations/:id
func (h *GenerationHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "Invalid generation id")
		return
	}

	if err := h.generationService.Delete(middleware.GetIdentity(c), id); err != nil {
		respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Generation deleted", nil)
}

// Export 导出全部历史到对象存储
// GET /api/v1/generations/export
func (h *GenerationHandler) Export(c *gin.Context) {
	resp, err := h.generationService.Export(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, resp)
}
