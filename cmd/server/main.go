package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/roomloop/roomloop-backend/internal/config"
	"github.com/roomloop/roomloop-backend/internal/database"
	"github.com/roomloop/roomloop-backend/internal/lifecycle"
	"github.com/roomloop/roomloop-backend/internal/realtime"
	"github.com/roomloop/roomloop-backend/internal/routes"
	"github.com/roomloop/roomloop-backend/internal/worker"
	"github.com/roomloop/roomloop-backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("database migration failed: %v", err)
	}
	if cfg.SeedDemo {
		if err := database.SeedDemo(db); err != nil {
			logger.Fatalf("demo seed failed: %v", err)
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logger.Fatalf("redis connection failed: %v", err)
	}

	hub := ws.NewHub(ws.Scope(cfg.BroadcastScope), logger)
	go hub.Run()

	// All events go out through Redis so every instance's hub sees them.
	bridge := realtime.NewBridge(rdb, hub, logger)
	go bridge.Run(context.Background())

	engine := lifecycle.NewEngine(db, logger)
	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	w := worker.New(redisOpt, engine, cfg.AdvanceEvery, logger)
	go func() {
		if err := w.Start(); err != nil {
			logger.Fatalf("worker failed: %v", err)
		}
	}()

	r := gin.Default()
	routes.Register(r, db, cfg, hub, bridge, logger)

	logger.Infof("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("server exited with error: %v", err)
	}
}
