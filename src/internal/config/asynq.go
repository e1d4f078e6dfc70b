package config

import (
	"crypto/tls"
	"fmt"

	"kotidham-service/src/pkg/log"

	"github.com/hibiken/asynq"
)

func asynqRedis(cfg *AppConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.UseTLS {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt
}

func NewAsynqClient(cfg *AppConfig) *asynq.Client {
	return asynq.NewClient(asynqRedis(cfg))
}

// NewAsynqServer runs the notification worker on the configured queue only.
func NewAsynqServer(cfg *AppConfig, log log.Log) *asynq.Server {
	return asynq.NewServer(asynqRedis(cfg), asynq.Config{
		Concurrency: cfg.Notification.Concurrency,
		Queues:      map[string]int{cfg.Notification.Queue: 1},
		Logger:      log.Logger,
	})
}
