package app

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/controller"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/service"
	"codequest_backend/pkg/configwatcher"
	"codequest_backend/pkg/database"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"codequest_backend/pkg/security"
	"codequest_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	Services *services

	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	curriculum *repository.CurriculumRepository
	status     *repository.TaskStatusRepository
	quest      *repository.QuestRepository
	badge      *repository.BadgeRepository
	inventory  *repository.InventoryRepository
	review     *repository.ReviewRepository
	quizResult *repository.QuizResultRepository
}

type services struct {
	User       *service.UserService
	Task       *service.TaskService
	Quests     *service.QuestPropagator
	Milestones *service.MilestonePropagator
	Shop       *service.ShopService
	Review     *service.ReviewService
	Quiz       *service.QuizService
	Curriculum *service.CurriculumService
	Import     *service.ImportService
}

type controllers struct {
	task       *controller.TaskController
	user       *controller.UserController
	shop       *controller.ShopController
	quiz       *controller.QuizController
	review     *controller.ReviewController
	curriculum *controller.CurriculumController
	admin      *controller.AdminController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		curriculum: repository.NewCurriculumRepository(db),
		status:     repository.NewTaskStatusRepository(db),
		quest:      repository.NewQuestRepository(db),
		badge:      repository.NewBadgeRepository(db),
		inventory:  repository.NewInventoryRepository(db),
		review:     repository.NewReviewRepository(db),
		quizResult: repository.NewQuizResultRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	// Redis 未启用时不使用课程缓存
	var cache service.CurriculumCache
	if rdb != nil {
		cache = service.NewRedisCurriculumCache(rdb)
	}
	s.Curriculum = service.NewCurriculumService(db, repos.curriculum, repos.status, cache, cfg.Cache.CurriculumTTL)

	s.User = service.NewUserService(db, repos.user, repos.badge)

	// 订阅顺序即执行顺序：先结算 Boss 伤害，再检查里程碑徽章
	s.Quests = service.NewQuestPropagator(repos.quest, repos.badge, repos.curriculum)
	s.Milestones = service.NewMilestonePropagator(repos.status, repos.badge, repos.curriculum)
	s.Task = service.NewTaskService(db, repos.user, repos.curriculum, repos.status, repos.inventory, s.Quests, s.Milestones)

	s.Shop = service.NewShopService(db, repos.user, repos.inventory, cfg.Shop)
	s.Task.Items = s.Shop
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.Shop.SetCatalog(newCfg.Shop)
	})

	s.Review = service.NewReviewService(db, repos.review)
	s.Quiz = service.NewQuizService(db, repos.quizResult, repos.review)

	var fetcher service.ObjectFetcher
	if cfg.Storage.MinioEndpoint != "" {
		minioFetcher, err := service.NewMinioFetcher(&cfg.Storage)
		if err != nil {
			logger.Log.Error("Failed to initialize MinIO client, remote imports disabled", zap.Error(err))
		} else {
			fetcher = minioFetcher
		}
	}
	s.Import = service.NewImportService(db, repos.curriculum, repos.review, fetcher, s.Curriculum, cfg.Storage.MinioBucket)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		task:       controller.NewTaskController(s.Task),
		user:       controller.NewUserController(s.User, s.Quests, s.Shop),
		shop:       controller.NewShopController(s.Shop),
		quiz:       controller.NewQuizController(s.Quiz),
		review:     controller.NewReviewController(s.Review),
		curriculum: controller.NewCurriculumController(s.Curriculum),
		admin:      controller.NewAdminController(s.Import),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// wire 在已打开的数据库（和可选的 Redis）上组装服务与路由
func (a *App) wire() {
	monitoring.Init()

	repos := a.initRepositories(a.DB)
	a.Services = a.initServices(repos, a.Config, a.DB, a.Redis)
	controllers := a.initControllers(a.Services)

	gin.SetMode(a.Config.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	if a.Config.Server.Mode != gin.TestMode {
		router.Use(gin.Logger())
	}
	a.setupMiddlewares(router, a.Config)
	a.registerRoutes(router, controllers, a.Config)
	a.Router = router
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不是必需组件
		logger.Log.Warn("Failed to initialize redis, curriculum cache disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.wire()
	return app
}

// Import 以命令行方式导入课程数据包
func (a *App) Import(ctx context.Context, source string) error {
	_, err := a.Services.Import.Import(ctx, source)
	return err
}

// Close 释放追踪、缓存与数据库连接
func (a *App) Close() {
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.ConfigFile == "" || len(a.configCallbacks) == 0 {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.ConfigFile, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	defer a.Close()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	a.watchConfig(ctx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
