package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ShopController struct {
	ShopService *service.ShopService
}

func NewShopController(shopService *service.ShopService) *ShopController {
	return &ShopController{ShopService: shopService}
}

// ListItems godoc
// @Summary 商品列表
// @Tags 商店
// @Produce json
// @Success 200 {object} util.Response{data=[]game.ShopItem}
// @Router /api/shop/items [get]
func (c *ShopController) ListItems(ctx *gin.Context) {
	util.Success(ctx, c.ShopService.ListItems())
}

// BuyItem godoc
// @Summary 购买商品
// @Tags 商店
// @Accept json
// @Produce json
// @Param request body UserItemRequest true "购买请求"
// @Success 200 {object} util.Response{data=service.BuyItemResult}
// @Failure 402 {object} util.Response "金币不足"
// @Failure 404 {object} util.Response "商品不存在"
// @Router /api/shop/buy [post]
func (c *ShopController) BuyItem(ctx *gin.Context) {
	var req UserItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	result, err := c.ShopService.BuyItem(ctx.Request.Context(), req.UserID, req.ItemID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// UseItem godoc
// @Summary 使用背包物品
// @Tags 商店
// @Accept json
// @Produce json
// @Param request body UserItemRequest true "使用请求"
// @Success 200 {object} util.Response{data=service.UseItemResult}
// @Failure 422 {object} util.Response "当前无法使用"
// @Router /api/shop/use [post]
func (c *ShopController) UseItem(ctx *gin.Context) {
	var req UserItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	result, err := c.ShopService.UseItem(ctx.Request.Context(), req.UserID, req.ItemID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
