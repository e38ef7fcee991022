package main

import (
	"context"
	"log"
	"os"
	"time"

	"drawboard-backend/internal/config"
	"drawboard-backend/internal/database"
	"drawboard-backend/internal/presence"
	"drawboard-backend/internal/server"
	"drawboard-backend/internal/store"
)

func main() {
	// 설정 로드
	cfg := config.Load()

	// 스토어 준비: DB_HOST가 비어 있으면 인메모리로 동작
	var st store.Store
	if cfg.Database.Host != "" {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			log.Fatalf("❌ Database connection failed: %v", err)
		}
		defer database.Close()

		if err := database.Ping(); err != nil {
			log.Fatalf("❌ Database ping failed: %v", err)
		}
		log.Printf("✅ Database connected successfully")

		st = store.NewGormStore(db)
	} else {
		log.Println("ℹ️ DB_HOST not set, using in-memory store (state is lost on restart)")
		st = store.NewMemoryStore()
	}

	// Presence 준비 (선택적)
	var pm *presence.Manager
	if cfg.Redis.Addr != "" {
		serverID, _ := os.Hostname()
		pm = presence.NewManager(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, serverID)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := pm.Ping(ctx); err != nil {
			log.Printf("⚠️ Redis unavailable, presence disabled: %v", err)
			pm = nil
		} else {
			log.Printf("✅ Redis connected, presence enabled (%s)", cfg.Redis.Addr)
		}
		cancel()
	} else {
		log.Println("ℹ️ REDIS_ADDR not set, presence disabled")
	}

	// 서버 생성 및 설정
	srv := server.New(cfg, st, pm)
	srv.SetupMiddleware()
	srv.SetupRoutes()

	// 서버 시작
	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
