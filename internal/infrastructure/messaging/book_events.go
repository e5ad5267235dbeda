// Package messaging 图书领域事件发布
//
// 写操作成功后向RabbitMQ发布事件(routing key见Event*常量),
// 发布失败只记录日志,不影响接口响应。
package messaging

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// 事件路由键
const (
	EventBookCreated   = "book.created"
	EventBookCommented = "book.commented"
	EventBookDeleted   = "book.deleted"
	EventBooksCleared  = "book.cleared"
)

// Event 图书事件消息体
type Event struct {
	Type         string    `json:"type"`
	BookID       string    `json:"book_id,omitempty"`
	Title        string    `json:"title,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	CommentCount int       `json:"commentcount,omitempty"`
	Deleted      int64     `json:"deleted,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// PublishTimeout 单个事件的发布超时
const PublishTimeout = 5 * time.Second

// Publisher 事件发布接口(*mq.Publisher实现)
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// publishingService 在领域服务外层发布事件
type publishingService struct {
	book.Service
	publisher Publisher
	log       *logrus.Logger
	now       func() time.Time
}

// NewPublishingService 包装领域服务
// publisher为nil时直接返回inner
func NewPublishingService(inner book.Service, publisher Publisher, log *logrus.Logger) book.Service {
	if publisher == nil {
		return inner
	}
	return &publishingService{
		Service:   inner,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// CreateBook 创建成功后发布book.created
func (s *publishingService) CreateBook(ctx context.Context, title string) (*book.Book, error) {
	b, err := s.Service.CreateBook(ctx, title)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, Event{Type: EventBookCreated, BookID: b.ID, Title: b.Title})
	return b, nil
}

// AddComment 追加成功后发布book.commented
func (s *publishingService) AddComment(ctx context.Context, id, comment string) (*book.Book, error) {
	b, err := s.Service.AddComment(ctx, id, comment)
	if err != nil {
		return nil, err
	}

	last := ""
	if n := len(b.Comments); n > 0 {
		last = b.Comments[n-1]
	}
	s.publish(ctx, Event{
		Type:         EventBookCommented,
		BookID:       b.ID,
		Title:        b.Title,
		Comment:      last,
		CommentCount: b.CommentCount,
	})
	return b, nil
}

// DeleteBook 删除成功后发布book.deleted
func (s *publishingService) DeleteBook(ctx context.Context, id string) error {
	if err := s.Service.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, Event{Type: EventBookDeleted, BookID: book.NormalizeID(id)})
	return nil
}

// DeleteAllBooks 清空成功后发布book.cleared
func (s *publishingService) DeleteAllBooks(ctx context.Context) (int64, error) {
	n, err := s.Service.DeleteAllBooks(ctx)
	if err != nil {
		return 0, err
	}
	s.publish(ctx, Event{Type: EventBooksCleared, Deleted: n})
	return n, nil
}

// publish 发布事件
// 写操作已经提交,客户端断开(请求context取消)时事件仍然发出,单独限定超时
func (s *publishingService) publish(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()

	ev.OccurredAt = s.now()
	if err := s.publisher.Publish(ctx, ev.Type, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":   ev.Type,
			"book_id": ev.BookID,
		}).Warn("图书事件发布失败")
	}
}
