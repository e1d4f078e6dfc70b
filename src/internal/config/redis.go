package config

import (
	"context"
	"time"

	redisModule "kotidham-service/src/pkg/redis"

	"github.com/redis/go-redis/v9"
)

func redisConfig(cfg *AppConfig) redisModule.CfgRedis {
	return redisModule.CfgRedis{
		UseCluster:       cfg.Redis.UseCluster,
		EnableTLS:        cfg.Redis.UseTLS,
		RedisHost:        cfg.Redis.Host,
		RedisPort:        cfg.Redis.Port,
		RedisPassword:    cfg.Redis.Password,
		RedisDB:          cfg.Redis.DB,
		RedisClusterNode: cfg.Redis.ClusterNode,
	}
}

func NewRedis(cfg *AppConfig) (redis.UniversalClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return redisModule.InitConnection(ctx, redisConfig(cfg))
}
