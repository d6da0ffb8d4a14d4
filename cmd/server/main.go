package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/richardliu001/order-event-service/internal/config"
	"github.com/richardliu001/order-event-service/internal/logger"
	"github.com/richardliu001/order-event-service/internal/model"
	"github.com/richardliu001/order-event-service/internal/repo"
	httptransport "github.com/richardliu001/order-event-service/internal/transport/http"

	"github.com/go-redis/redis/v8"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// 1. load config
	cfg, err := config.Load("internal/config/config.yaml")
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	// 2. init logger
	log, err := logger.NewLogger()
	if err != nil {
		panic(fmt.Errorf("init logger: %w", err))
	}
	defer log.Sync()

	// 3. postgres
	gdb, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{PrepareStmt: true})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gdb.AutoMigrate(&model.Order{}, &model.Payment{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// 4. redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("redis ping: %v", err)
	}

	// 5. repo & router
	repository := repo.NewRepository(gdb, rdb, log)
	router := httptransport.NewRouter(repository, cfg.RateLimit, log)

	// 6. serve
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Infof("order-query-server listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
