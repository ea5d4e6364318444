package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// SubmitReviewRequest 复习作答
// swagger:model SubmitReviewRequest
type SubmitReviewRequest struct {
	UserID     string `json:"userId" binding:"required"`
	QuestionID uint   `json:"questionId" binding:"required"`
	IsCorrect  *bool  `json:"isCorrect" binding:"required"`
}

// AddReviewRequest 加入复习队列
// swagger:model AddReviewRequest
type AddReviewRequest struct {
	UserID     string `json:"userId" binding:"required"`
	QuestionID uint   `json:"questionId" binding:"required"`
}

// GetDue godoc
// @Summary 今日待复习
// @Tags 复习
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response{data=[]repository.DueReview}
// @Router /api/users/{userId}/reviews/due [get]
func (c *ReviewController) GetDue(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	due, err := c.ReviewService.GetDailyReview(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, due)
}

// SubmitResult godoc
// @Summary 提交复习结果
// @Tags 复习
// @Accept json
// @Produce json
// @Param request body SubmitReviewRequest true "作答结果"
// @Success 200 {object} util.Response{data=model.UserQuestionReview}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/reviews/result [post]
func (c *ReviewController) SubmitResult(ctx *gin.Context) {
	var req SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	review, err := c.ReviewService.SubmitReviewResult(ctx.Request.Context(), req.UserID, req.QuestionID, *req.IsCorrect)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

func (c *ReviewController) Add(ctx *gin.Context) {
	var req AddReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	review, err := c.ReviewService.AddToReview(ctx.Request.Context(), req.UserID, req.QuestionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

func (c *ReviewController) GetStats(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	stats, err := c.ReviewService.GetStats(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
