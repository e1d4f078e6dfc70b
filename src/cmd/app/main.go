package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kotidham-service/src/internal/config"

	"github.com/hibiken/asynq"
)

func main() {
	viperConfig := config.NewViper()
	cfg, err := config.LoadAppConfig(viperConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg)

	db, gormDB, err := config.NewDatabase(cfg, logger)
	if err != nil {
		logger.Logger.Fatalf("database: %v", err)
	}
	redisClient, err := config.NewRedis(cfg)
	if err != nil {
		logger.Logger.Fatalf("redis: %v", err)
	}
	producer, err := config.NewKafkaProducer(cfg, logger)
	if err != nil {
		logger.Logger.Fatalf("kafka: %v", err)
	}
	asynqClient := config.NewAsynqClient(cfg)
	worker := config.NewAsynqServer(cfg, logger)
	mux := asynq.NewServeMux()
	app := config.NewFiber(cfg)

	config.Bootstrap(&config.BootstrapConfig{
		DB:          db,
		Gorm:        gormDB,
		App:         app,
		Log:         logger,
		Validate:    config.NewValidator(),
		Config:      cfg,
		Producer:    producer,
		Redis:       redisClient,
		Gateway:     config.NewRazorpay(cfg, logger),
		Notifier:    config.NewNotifier(cfg),
		AsynqClient: asynqClient,
		Async:       mux,
	})

	if err := worker.Start(mux); err != nil {
		logger.Logger.Fatalf("notification worker: %v", err)
	}

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Web.Port)); err != nil {
			logger.Error("main", fmt.Sprintf("Failed to start server: %v", err), "main", "")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("main", fmt.Sprintf("Server %s is shutting down...", cfg.App.Name), "graceful", "")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("main", fmt.Sprintf("Error during shutdown: %v", err), "graceful", "")
	}
	worker.Shutdown()
	if err := asynqClient.Close(); err != nil {
		logger.Error("main", err.Error(), "graceful", "asynq client")
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("main", err.Error(), "graceful", "kafka producer")
		}
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("main", err.Error(), "graceful", "redis")
	}

	if err := db.Close(); err != nil {
		logger.Error("main", err.Error(), "graceful", "database")
	}
	logger.Info("main", fmt.Sprintf("Server %s stopped", cfg.App.Name), "graceful", "")
}
