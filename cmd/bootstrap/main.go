// Package main 初始化数据库结构
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"deck-import-api/internal/config"
	"deck-import-api/internal/wire"
)

// 导入服务的存储结构：演示文稿与幻灯片，一次导入一个事务内写入
var schema = []string{
	`CREATE TABLE IF NOT EXISTS presentations (
		id           UUID PRIMARY KEY,
		title        VARCHAR(500) NOT NULL,
		template     VARCHAR(100) NOT NULL,
		language     VARCHAR(100) NOT NULL,
		slide_count  INT NOT NULL DEFAULT 0,
		layouts_used TEXT[] NOT NULL DEFAULT '{}',
		status       VARCHAR(50) NOT NULL,
		export_as    VARCHAR(10),
		export_path  TEXT,
		export_error TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS slides (
		id              UUID PRIMARY KEY,
		presentation_id UUID NOT NULL REFERENCES presentations(id) ON DELETE CASCADE,
		slide_index     INT NOT NULL,
		layout_group    VARCHAR(100) NOT NULL,
		layout_slug     VARCHAR(100) NOT NULL,
		content         JSONB NOT NULL,
		speaker_note    TEXT,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (presentation_id, slide_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_presentations_template ON presentations (template)`,
	`CREATE INDEX IF NOT EXISTS idx_presentations_status ON presentations (status)`,
	`CREATE INDEX IF NOT EXISTS idx_presentations_created_at ON presentations (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_slides_presentation ON slides (presentation_id, slide_index)`,
}

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层
	dataLayer, cleanup, err := wire.InitializeDataLayer(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 创建表结构
	db := dataLayer.PgClient.SqlDB()
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}
	fmt.Println("Schema applied.")

	// 4. 连通性检查
	if err := dataLayer.PgClient.HealthCheck(ctx); err != nil {
		log.Fatalf("postgres health check failed: %v", err)
	}
	if err := dataLayer.RedisClient.HealthCheck(ctx); err != nil {
		log.Fatalf("redis health check failed: %v", err)
	}

	fmt.Println("Bootstrap completed successfully.")
}
