package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	ImportService *service.ImportService
}

func NewAdminController(importService *service.ImportService) *AdminController {
	return &AdminController{ImportService: importService}
}

// ImportRequest 数据包来源：本地路径或 minio://bucket/key
// swagger:model ImportRequest
type ImportRequest struct {
	Source string `json:"source" binding:"required"`
}

// Import godoc
// @Summary 导入课程数据包
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImportRequest true "数据包来源"
// @Success 200 {object} util.Response{data=service.ImportSummary}
// @Router /api/admin/import [post]
func (c *AdminController) Import(ctx *gin.Context) {
	var req ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	summary, err := c.ImportService.Import(ctx.Request.Context(), req.Source)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
