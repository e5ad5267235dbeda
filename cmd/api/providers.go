package main

import (
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/resilience"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// 自定义Provider
// 这些依赖的构造参数需要从Config中提取或需要组装装饰链,Wire无法自动推导

// provideLogger 从配置创建日志实例
func provideLogger(cfg *config.Config) (*logrus.Logger, func(), error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideBookRepository 组装图书仓储装饰链
// gorm仓储 → 熔断(breaker.enabled) → 详情缓存(redis.enabled)
// 未启用的装饰层直接返回内层仓储
func provideBookRepository(
	cfg *config.Config,
	log *logrus.Logger,
	db *gorm.DB,
	tx *gormstore.TxManager,
	client *goredis.Client,
) book.Repository {
	repo := gormstore.NewBookRepository(db, tx)
	repo = resilience.NewBookRepository(repo, resilience.NewBreaker(cfg.Breaker, log))
	return redis.NewCachedBookRepository(repo, redis.NewBookCache(client, cfg.Redis.DetailTTL), log)
}

// provideBookService 创建领域服务,启用事件发布时在外层发布图书事件
func provideBookService(repo book.Repository, publisher *mq.Publisher, log *logrus.Logger) book.Service {
	svc := book.NewService(repo)
	if publisher == nil {
		return svc
	}
	return messaging.NewPublishingService(svc, publisher, log)
}
