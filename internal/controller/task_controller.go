package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TaskController 任务完成与撤销
type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// TaskActionRequest 完成/撤销任务请求
// swagger:model TaskActionRequest
type TaskActionRequest struct {
	UserID string `json:"userId" binding:"required"`
	TaskID string `json:"taskId" binding:"required"`
}

// CompleteTask godoc
// @Summary 完成任务
// @Description 发放经验与金币，更新连胜并结算 Boss 伤害
// @Tags 任务
// @Accept json
// @Produce json
// @Param request body TaskActionRequest true "完成任务请求"
// @Success 200 {object} util.Response{data=service.CompleteTaskResult}
// @Failure 404 {object} util.Response "任务或用户不存在"
// @Failure 409 {object} util.Response "任务已完成"
// @Router /api/tasks/complete [post]
func (c *TaskController) CompleteTask(ctx *gin.Context) {
	var req TaskActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	result, err := c.TaskService.CompleteTask(ctx.Request.Context(), req.UserID, req.TaskID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// UncompleteTask godoc
// @Summary 撤销完成
// @Description 按完成时记录的数值扣回经验与金币
// @Tags 任务
// @Accept json
// @Produce json
// @Param request body TaskActionRequest true "撤销任务请求"
// @Success 200 {object} util.Response{data=service.UncompleteTaskResult}
// @Failure 409 {object} util.Response "任务未完成"
// @Router /api/tasks/uncomplete [post]
func (c *TaskController) UncompleteTask(ctx *gin.Context) {
	var req TaskActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	result, err := c.TaskService.UncompleteTask(ctx.Request.Context(), req.UserID, req.TaskID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
