package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// AddCommentUseCase 追加评论用例
type AddCommentUseCase struct {
	bookService book.Service
}

// NewAddCommentUseCase 创建追加评论用例
func NewAddCommentUseCase(bookService book.Service) *AddCommentUseCase {
	return &AddCommentUseCase{
		bookService: bookService,
	}
}

// AddCommentRequest 追加评论请求DTO
type AddCommentRequest struct {
	ID      string
	Comment string
}

// Execute 执行追加评论
// 返回更新后的完整图书(评论列表与计数一致)
func (uc *AddCommentUseCase) Execute(ctx context.Context, req AddCommentRequest) (resp *BookDetail, err error) {
	ctx, done := observe(ctx, OpComment, attribute.String("book_id", req.ID))
	defer func() { done(err) }()

	b, err := uc.bookService.AddComment(ctx, req.ID, req.Comment)
	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.CommentsAddedTotal)
	return toBookDetail(b), nil
}
