package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/richardliu001/order-event-service/internal/config"
	"github.com/richardliu001/order-event-service/internal/consumer"
	"github.com/richardliu001/order-event-service/internal/engine"
	"github.com/richardliu001/order-event-service/internal/logger"
	"github.com/richardliu001/order-event-service/internal/model"
	"github.com/richardliu001/order-event-service/internal/repo"
	"github.com/richardliu001/order-event-service/internal/report"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
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

	// 5. kafka reader
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer reader.Close()

	// 6. repo, engine, router
	repository := repo.NewRepository(gdb, rdb, log)
	reporter := report.NewLogReporter(log)
	eng := engine.NewEngine(repository, reporter, log)
	router := consumer.NewRouter(eng, log)
	cons := consumer.NewConsumer(reader, router, log)

	// 7. consume until signalled
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infof("order-event-consumer started on topic %s", cfg.Kafka.Topic)
	if err := cons.Run(ctx); err != nil {
		log.Fatalf("consumer: %v", err)
	}
}
