package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // text | json
	Output       string // stdout | stderr | 文件路径
	EnableCaller bool
}

// New 根据配置创建logrus实例
// 返回的cleanup负责关闭日志文件(输出到stdout/stderr时为空操作)
func New(opts Options) (*logrus.Logger, func(), error) {
	log := logrus.New()

	// 1. 日志级别
	level, err := logrus.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}
	log.SetLevel(level)

	// 2. 输出格式
	switch opts.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	// 3. 输出目标
	out, cleanup, err := openOutput(opts.Output)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(out)

	log.SetReportCaller(opts.EnableCaller)

	return log, cleanup, nil
}

func openOutput(output string) (io.Writer, func(), error) {
	switch output {
	case "", "stdout":
		return os.Stdout, func() {}, nil
	case "stderr":
		return os.Stderr, func() {}, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
}

// Discard 丢弃所有输出的logger(测试用)
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
