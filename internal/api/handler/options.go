package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/config"
	"github.com/qs3c/repurpose_server/internal/model/dto"
	"github.com/qs3c/repurpose_server/internal/pkg/repurpose"
	"github.com/qs3c/repurpose_server/internal/pkg/response"
)

type OptionsHandler struct {
	cfg *config.Config
}

func NewOptionsHandler(cfg *config.Config) *OptionsHandler {
	return &OptionsHandler{cfg: cfg}
}

// List 表单可选的语气、平台和积分套餐
// GET /api/v1/options
func (h *OptionsHandler) List(c *gin.Context) {
	tones := make([]dto.ToneOption, len(repurpose.Tones))
	for i, t := range repurpose.Tones {
		tones[i] = dto.ToneOption{Name: t.Name, Description: t.Description}
	}

	response.Success(c, dto.OptionsResponse{
		Tones:     tones,
		Platforms: repurpose.AllPlatforms,
		Package: dto.PackageOption{
			Credits:  h.cfg.Credits.PackageCredits,
			Amount:   h.cfg.Credits.PackagePrice,
			Currency: h.cfg.Credits.Currency,
		},
	})
}
