package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// BookDetail 图书详情DTO(含全部评论)
type BookDetail struct {
	ID           string
	Title        string
	Comments     []string
	CommentCount int
}

func toBookDetail(b *book.Book) *BookDetail {
	comments := b.Comments
	if comments == nil {
		comments = []string{}
	}
	return &BookDetail{
		ID:           b.ID,
		Title:        b.Title,
		Comments:     comments,
		CommentCount: b.CommentCount,
	}
}

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService: bookService,
	}
}

// GetBookRequest 详情查询请求DTO
type GetBookRequest struct {
	ID string
}

// Execute 执行详情查询
// ID格式错误返回book.ErrMalformedID,不存在返回book.ErrBookNotFound
func (uc *GetBookUseCase) Execute(ctx context.Context, req GetBookRequest) (resp *BookDetail, err error) {
	ctx, done := observe(ctx, OpGet, attribute.String("book_id", req.ID))
	defer func() { done(err) }()

	b, err := uc.bookService.GetBook(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return toBookDetail(b), nil
}
