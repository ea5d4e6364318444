package controller

import (
	"codequest_backend/internal/service"
	"codequest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitQuizRequest 测验成绩
// swagger:model SubmitQuizRequest
type SubmitQuizRequest struct {
	UserID               string `json:"userId" binding:"required"`
	Score                *int   `json:"score" binding:"required"`
	TotalQuestions       int    `json:"totalQuestions" binding:"required"`
	IncorrectQuestionIDs []uint `json:"incorrectQuestionIds"`
}

// GetQuestions godoc
// @Summary 获取测验题目
// @Tags 测验
// @Produce json
// @Param quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/quizzes/{quizId}/questions [get]
func (c *QuizController) GetQuestions(ctx *gin.Context) {
	questions, err := c.QuizService.GetQuizQuestions(ctx.Request.Context(), ctx.Param("quizId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// SubmitResult godoc
// @Summary 提交测验成绩
// @Description 只记录成绩；答错的题目加入复习队列
// @Tags 测验
// @Accept json
// @Produce json
// @Param quizId path string true "测验ID"
// @Param request body SubmitQuizRequest true "成绩"
// @Success 201 {object} util.Response{data=model.QuizResult}
// @Failure 422 {object} util.Response "分数不合法"
// @Router /api/quizzes/{quizId}/results [post]
func (c *QuizController) SubmitResult(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !authorize(ctx, req.UserID) {
		return
	}

	result, err := c.QuizService.SubmitQuizResult(ctx.Request.Context(), service.SubmitQuizInput{
		UserID:               req.UserID,
		QuizID:               ctx.Param("quizId"),
		Score:                *req.Score,
		TotalQuestions:       req.TotalQuestions,
		IncorrectQuestionIDs: req.IncorrectQuestionIDs,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

func (c *QuizController) GetHistory(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	history, err := c.QuizService.GetHistory(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, history)
}

// GetBestScore 没有记录时 data.result 为 null
func (c *QuizController) GetBestScore(ctx *gin.Context) {
	userID := ctx.Param("userId")
	if !authorize(ctx, userID) {
		return
	}
	best, err := c.QuizService.GetBestScore(ctx.Request.Context(), userID, ctx.Param("quizId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"result": best})
}
