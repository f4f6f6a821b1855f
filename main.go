package main

import (
	"codequest_backend/internal/app"
	"codequest_backend/internal/config"
	"codequest_backend/pkg/database"
	"codequest_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移在 NewApp 中完成，直接退出
	if *migrateOnly {
		logger.Log.Info("Database migration finished")
		database.Close(application.DB)
		return
	}

	application.Run()
}
