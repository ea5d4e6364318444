package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CurriculumController 课程周与任务
type CurriculumController struct {
	CurriculumService *service.CurriculumService
}

func NewCurriculumController(curriculumService *service.CurriculumService) *CurriculumController {
	return &CurriculumController{CurriculumService: curriculumService}
}

// GetWeeks godoc
// @Summary 课程周列表
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Week}
// @Router /api/weeks [get]
func (c *CurriculumController) GetWeeks(ctx *gin.Context) {
	weeks, err := c.CurriculumService.GetWeeks(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, weeks)
}

// GetTasks godoc
// @Summary 某周的任务
// @Tags 课程
// @Produce json
// @Param weekId path int true "周ID"
// @Success 200 {object} util.Response{data=[]model.Task}
// @Router /api/weeks/{weekId}/tasks [get]
func (c *CurriculumController) GetTasks(ctx *gin.Context) {
	weekID, ok := uintParam(ctx, "weekId")
	if !ok {
		return
	}
	tasks, err := c.CurriculumService.GetTasks(ctx.Request.Context(), weekID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

func (c *CurriculumController) GetWeekProgress(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	weekID, ok := uintParam(ctx, "weekId")
	if !ok {
		return
	}
	progress, err := c.CurriculumService.GetWeekProgress(ctx.Request.Context(), userID, weekID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
