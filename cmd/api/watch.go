package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/messaging"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// WatchCmd 观察图书事件
// 使用临时队列订阅,退出后队列自动删除,不影响其它消费者
type WatchCmd struct {
	Pattern string `help:"routing key匹配模式" default:"book.#"`
}

// Run 消费事件直到收到退出信号
func (w *WatchCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Events.Enabled {
		return errors.New("events.enabled=false,没有可观察的事件")
	}

	log, closeLog, err := provideLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	consumer, err := messaging.NewWatcher(cfg, log, w.Pattern)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return consumer.Consume(ctx, func(routingKey string, body []byte) error {
		var ev messaging.Event
		if err := mq.Decode(body, &ev); err != nil {
			// 无法解析的消息重新入队没有意义,记录后确认
			log.WithError(err).WithField("routing_key", routingKey).Warn("忽略无法解析的事件")
			return nil
		}
		log.WithFields(logrus.Fields{
			"event":        routingKey,
			"book_id":      ev.BookID,
			"title":        ev.Title,
			"commentcount": ev.CommentCount,
			"deleted":      ev.Deleted,
			"occurred_at":  ev.OccurredAt,
		}).Info("图书事件")
		return nil
	})
}
