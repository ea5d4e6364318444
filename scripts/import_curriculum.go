// 手动导入课程数据包脚本
//
// 与 `codequest -import` 等价，但不初始化 HTTP 层，适合在部署流水线中执行。
// 数据包可以是本地 YAML/JSON 文件，也可以是 minio://bucket/key。
//
// 用法: go run scripts/import_curriculum.go configs/curriculum.yaml

package main

import (
	"codequest_backend/internal/config"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/service"
	"codequest_backend/pkg/database"
	"codequest_backend/pkg/logger"
	"context"
	"log"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("用法: go run scripts/import_curriculum.go <source>")
	}
	source := os.Args[1]

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var fetcher service.ObjectFetcher
	if cfg.Storage.MinioEndpoint != "" {
		f, err := service.NewMinioFetcher(&cfg.Storage)
		if err != nil {
			log.Fatalf("MinIO 初始化失败: %v", err)
		}
		fetcher = f
	}

	curriculumRepo := repository.NewCurriculumRepository(db)
	importer := service.NewImportService(db, curriculumRepo, repository.NewReviewRepository(db), fetcher, nil, cfg.Storage.MinioBucket)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("导入 %s ...", source)
	summary, err := importer.Import(ctx, source)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！周 %d，任务 %d，徽章 %d，Boss %d，题目 %d",
		summary.Weeks, summary.Tasks, summary.Badges, summary.Quests, summary.Questions)
}
