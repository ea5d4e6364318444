package main

import (
	"codequest_backend/internal/app"
	"codequest_backend/internal/config"
	"codequest_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"time"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "config.yaml 所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	importPath := flag.String("import", "", "导入课程数据包（本地路径或 minio://bucket/key）后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.MigrateOnly = *migrateOnly
	cfg.ImportPath = *importPath

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移在 NewApp 中完成
	if cfg.MigrateOnly {
		log.Println("数据库迁移完成，退出程序")
		application.Close()
		return
	}

	if cfg.ImportPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		err := application.Import(ctx, cfg.ImportPath)
		cancel()
		application.Close()
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		return
	}

	application.Run()
}
