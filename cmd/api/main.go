// @title           Book Catalog API
// @version         1.0
// @description     图书目录服务:图书的创建、查询、评论与删除
// @host            localhost:8080
// @BasePath        /
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
)

// CLI 命令行结构
// 全局参数对所有子命令生效,不指定子命令时执行serve
type CLI struct {
	Config string `short:"c" help:"配置文件路径(默认查找config/config.yaml)" type:"path"`
	Env    string `help:"运行环境,加载config.<env>.yaml" env:"BOOKCATALOG_ENV"`
	Port   int    `help:"覆盖server.port"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"启动HTTP服务"`
	Migrate MigrateCmd `cmd:"" help:"执行数据库迁移后退出"`
	Watch   WatchCmd   `cmd:"" help:"订阅RabbitMQ并输出图书事件"`
}

// loadConfig 加载配置并应用命令行覆盖
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{File: c.Config, Env: c.Env})
	if err != nil {
		return nil, err
	}
	if c.Port > 0 {
		cfg.Server.Port = c.Port
	}
	return cfg, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bookcatalog"),
		kong.Description("图书目录REST服务"),
		kong.UsageOnError(),
	)

	if err := ctx.Run(&cli); err != nil {
		fmt.Fprintf(os.Stderr, "bookcatalog: %v\n", err)
		os.Exit(1)
	}
}
