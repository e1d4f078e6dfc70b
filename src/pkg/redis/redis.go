package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

func InitConnection(ctx context.Context, cfg CfgRedis) (redis.UniversalClient, error) {
	var tlsConf *tls.Config
	if cfg.EnableTLS {
		tlsConf = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	var client redis.UniversalClient
	if !cfg.UseCluster {
		client = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr(),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			TLSConfig:    tlsConf,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MaxRetries:   2,
		})
	} else {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.ClusterHosts(),
			Password:     cfg.RedisPassword,
			TLSConfig:    tlsConf,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
