package app

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/middleware"
	"codequest_backend/pkg/monitoring"
	"codequest_backend/pkg/security"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由按 IP 限流，带身份的路由按令牌 Subject 限流
	publicLimit, identityLimit := a.rateLimiters(cfg)

	// 1. 公共路由
	a.registerPublicRoutes(router, c, publicLimit)

	// 2. 需要身份的路由（未配置 jwt.secret 时放行）
	authGroup := router.Group("/api")
	authGroup.Use(middleware.IdentityMiddleware(cfg.JWT.Secret), identityLimit)
	{
		a.registerPlayerRoutes(authGroup, c)
		a.registerLearningRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg, identityLimit)
}

func (a *App) rateLimiters(cfg *config.Config) (public, identity gin.HandlerFunc) {
	if cfg.RateLimit.MaxRequests <= 0 {
		pass := func(c *gin.Context) { c.Next() }
		return pass, pass
	}
	return security.RateLimiter(cfg.RateLimit, security.ClientKey),
		security.RateLimiter(cfg.RateLimit, security.IdentityKey)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, limit gin.HandlerFunc) {
	public := router.Group("/api")
	public.Use(limit)
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/weeks", c.curriculum.GetWeeks)
		public.GET("/weeks/:weekId/tasks", c.curriculum.GetTasks)
		public.GET("/shop/items", c.shop.ListItems)
		public.GET("/quizzes/:quizId/questions", c.quiz.GetQuestions)
	}
}

func (a *App) registerPlayerRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/users", c.user.EnsureUser)

	users := group.Group("/users/:userId")
	{
		users.GET("/rpg", c.user.GetRPGState)
		users.GET("/badges", c.user.GetBadges)
		users.GET("/quest", c.user.GetActiveQuest)
		users.GET("/inventory", c.user.GetInventory)
		users.GET("/weeks/:weekId/progress", c.curriculum.GetWeekProgress)
	}

	tasks := group.Group("/tasks")
	{
		tasks.POST("/complete", c.task.CompleteTask)
		tasks.POST("/uncomplete", c.task.UncompleteTask)
	}

	shop := group.Group("/shop")
	{
		shop.POST("/buy", c.shop.BuyItem)
		shop.POST("/use", c.shop.UseItem)
	}
}

func (a *App) registerLearningRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/quizzes/:quizId/results", c.quiz.SubmitResult)
	group.GET("/users/:userId/quizzes", c.quiz.GetHistory)
	group.GET("/users/:userId/quizzes/:quizId/best", c.quiz.GetBestScore)

	group.GET("/users/:userId/reviews/due", c.review.GetDue)
	group.GET("/users/:userId/reviews/stats", c.review.GetStats)
	group.POST("/reviews", c.review.Add)
	group.POST("/reviews/result", c.review.SubmitResult)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config, limit gin.HandlerFunc) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.IdentityMiddleware(cfg.JWT.Secret), limit, middleware.AdminMiddleware(cfg.JWT.Secret, cfg.JWT.AdminSubjects))
	{
		admin.POST("/import", c.admin.Import)
	}
}
