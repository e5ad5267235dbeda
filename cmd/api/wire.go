//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：日志、数据库连接、Redis连接、事件发布者
var infrastructureSet = wire.NewSet(
	provideLogger,
	gormstore.NewDB,
	redis.NewClient,
	messaging.NewPublisher,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	gormstore.NewTxManager,
	provideBookRepository,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	provideBookService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewListBooksUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewAddCommentUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewDeleteAllBooksUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	gormstore.NewPinger,
	wire.Bind(new(handler.Pinger), new(*gormstore.Pinger)),
	handler.NewHealthHandler,
	handler.NewBookHandler,
	router.New,
)

// InitializeApp 初始化整个应用
// 返回的cleanup按创建的逆序关闭事件发布者、Redis、数据库连接和日志文件
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
