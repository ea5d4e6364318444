package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	Quests      *service.QuestPropagator
	ShopService *service.ShopService
}

func NewUserController(userService *service.UserService, quests *service.QuestPropagator, shopService *service.ShopService) *UserController {
	return &UserController{UserService: userService, Quests: quests, ShopService: shopService}
}

// EnsureUserRequest 注册回调请求
// swagger:model EnsureUserRequest
type EnsureUserRequest struct {
	UserID   string `json:"userId" binding:"required"`
	Username string `json:"username"`
}

// EnsureUser godoc
// @Summary 注册用户
// @Description 外部身份系统注册后调用，重复调用返回已有档案
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body EnsureUserRequest true "用户信息"
// @Success 200 {object} util.Response{data=model.User}
// @Success 201 {object} util.Response{data=model.User}
// @Router /api/users [post]
func (c *UserController) EnsureUser(ctx *gin.Context) {
	var req EnsureUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	user, created, err := c.UserService.EnsureUser(ctx.Request.Context(), req.UserID, req.Username)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, user)
		return
	}
	util.Success(ctx, user)
}

// GetRPGState godoc
// @Summary 获取成长面板
// @Tags 用户
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response{data=service.RPGState}
// @Router /api/users/{userId}/rpg [get]
func (c *UserController) GetRPGState(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	state, err := c.UserService.GetRPGState(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, state)
}

func (c *UserController) GetBadges(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	badges, err := c.UserService.GetUserBadges(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// GetActiveQuest 没有进行中的 Boss 时 data 为 null
func (c *UserController) GetActiveQuest(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	active, err := c.Quests.GetActiveQuest(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"quest": active})
}

func (c *UserController) GetInventory(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	items, err := c.ShopService.GetInventory(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}
