package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/persistence/gormstore"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

// App 应用实例(由Wire组装)
type App struct {
	Config *config.Config
	Log    *logrus.Logger
	Engine *gin.Engine
}

func newApp(cfg *config.Config, log *logrus.Logger, engine *gin.Engine) *App {
	return &App{Config: cfg, Log: log, Engine: engine}
}

// ServeCmd 启动HTTP服务
type ServeCmd struct{}

// Run 启动服务并阻塞到收到退出信号
func (s *ServeCmd) Run(cli *CLI) error {
	// 步骤1: 加载配置
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	// 步骤2: 链路追踪(未启用时为noop)
	shutdownTracer, err := tracing.InitTracer(tracing.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
	})
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	// 步骤3: 依赖注入
	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	log := app.Log
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 步骤4: 启动HTTP服务器
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":    srv.Addr,
			"mode":    cfg.Server.Mode,
			"driver":  cfg.Database.Driver,
			"redis":   cfg.Redis.Enabled,
			"breaker": cfg.Breaker.Enabled,
			"tracing": cfg.Tracing.Enabled,
		}).Info("服务启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 步骤5: 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("正在优雅关闭服务")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("服务已关闭")
	return nil
}

// MigrateCmd 只执行数据库迁移
type MigrateCmd struct{}

// Run 执行迁移
func (m *MigrateCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	log, closeLog, err := provideLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	// NewDB会执行AutoMigrate
	_, cleanup, err := gormstore.NewDB(cfg, log)
	if err != nil {
		return err
	}
	cleanup()

	log.WithField("driver", cfg.Database.Driver).Info("数据库迁移完成")
	return nil
}
