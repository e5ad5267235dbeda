package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewClient 创建Redis客户端
// 设计说明：
// 1. redis.enabled=false时返回nil客户端,图书详情不走缓存
// 2. 配置连接池参数（PoolSize、MinIdleConns）和超时参数
// 3. 测试连接可用性
// 返回的cleanup负责关闭客户端
func NewClient(cfg *config.Config, log *logrus.Logger) (*redis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis缓存未启用")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	log.WithField("addr", cfg.Redis.Addr()).Info("Redis连接成功")
	return client, func() { _ = client.Close() }, nil
}
