// Package router 组装Gin引擎:全局中间件、运维路由和图书路由
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/bookcatalog/docs"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/handler"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// New 创建并配置Gin引擎
//
// 中间件执行顺序：Tracing → Logger → Recovery → Metrics → Handler
// Recovery放在Logger之后,panic产生的500同样会被记录
func New(
	cfg *config.Config,
	log *logrus.Logger,
	bookHandler *handler.BookHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.Use(middleware.Tracing())
	r.Use(middleware.Logger(log, middleware.DefaultSlowThreshold))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"panic":      recovered,
		}).Error("请求处理panic")
		response.InternalError(c)
		c.Abort()
	}))
	r.Use(middleware.Metrics())

	// 运维接口
	r.GET("/ping", healthHandler.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档(生产环境不暴露)
	if gin.Mode() != gin.ReleaseMode {
		docs.SwaggerInfo.BasePath = "/"
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// 图书接口
	books := r.Group("/api/books")
	{
		books.GET("", bookHandler.ListBooks)
		books.POST("", bookHandler.CreateBook)
		books.DELETE("", bookHandler.DeleteAllBooks)

		books.GET("/:id", bookHandler.GetBook)
		books.POST("/:id", bookHandler.AddComment)
		books.DELETE("/:id", bookHandler.DeleteBook)
	}

	return r
}
