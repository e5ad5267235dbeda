package messaging

import (
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// NewPublisher 创建RabbitMQ事件发布者
// events.enabled=false时返回nil,图书服务不发布事件
// 返回的cleanup负责关闭连接
func NewPublisher(cfg *config.Config, log *logrus.Logger) (*mq.Publisher, func(), error) {
	if !cfg.Events.Enabled {
		log.Info("图书事件发布未启用")
		return nil, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.Events.URL, cfg.Events.Exchange, cfg.Events.ExchangeType, log)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("关闭事件发布者失败")
		}
	}
	return publisher, cleanup, nil
}

// NewWatcher 创建事件观察者(临时队列,订阅全部图书事件)
func NewWatcher(cfg *config.Config, log *logrus.Logger, pattern string) (*mq.Consumer, error) {
	if pattern == "" {
		pattern = "book.#"
	}
	return mq.NewConsumer(cfg.Events.URL, cfg.Events.Exchange, cfg.Events.ExchangeType, "", []string{pattern}, log)
}
