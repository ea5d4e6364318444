package controller

import (
	"codequest_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// UserItemRequest 以用户和对象 ID 为参数的通用请求
// swagger:model UserItemRequest
type UserItemRequest struct {
	UserID string `json:"userId" binding:"required"`
	ItemID string `json:"itemId" binding:"required"`
}

// authorize 启用身份校验时 userId 必须与令牌一致
func authorize(ctx *gin.Context, userID string) bool {
	if err := util.CheckIdentity(ctx, userID); err != nil {
		util.Forbidden(ctx)
		return false
	}
	return true
}

func uintParam(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}
