package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// NewDB 创建数据库连接并迁移表结构
// 设计说明：
// 1. 使用GORM v2作为ORM框架,按database.driver选择mysql/postgres/sqlite方言
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境打印SQL日志,日志统一输出到logrus
// 4. 自动迁移表结构（AutoMigrate）
// 返回的cleanup负责关闭连接池
func NewDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, func(), error) {
	db, err := Open(cfg.Database, cfg.Server.Mode, log)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	// 自动迁移表结构
	// 注意：生产环境应使用版本化的迁移脚本(migrate子命令可单独执行)
	if err := AutoMigrate(db); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, cleanup, nil
}

// Open 打开数据库连接(不迁移)
func Open(cfg config.DatabaseConfig, mode string, log *logrus.Logger) (*gorm.DB, error) {
	// 1. 选择方言
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// 2. 配置GORM日志(桥接到logrus)
	logLevel := gormlogger.Silent
	if mode == "debug" {
		logLevel = gormlogger.Info // 开发环境打印SQL
	}
	gormLog := gormlogger.New(log, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logLevel,
		IgnoreRecordNotFoundError: true,
	})

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormLog,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == config.DriverSQLite {
		// sqlite同一时刻只允许一个写连接,多连接会出现database is locked
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.WithField("driver", cfg.Driver).Info("数据库连接成功")

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// AutoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 这里使用GORM模型（带tag），不是domain层的实体
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&BookModel{},
		&CommentModel{},
	)
}

// Pinger 数据库健康检查
type Pinger struct {
	db *gorm.DB
}

// NewPinger 创建健康检查器
func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

// Ping 检查数据库连接是否可用
func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
