package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// DeleteBookUseCase 删除单本图书用例
type DeleteBookUseCase struct {
	bookService book.Service
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookService book.Service) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookService: bookService,
	}
}

// DeleteBookRequest 删除请求DTO
type DeleteBookRequest struct {
	ID string
}

// Execute 执行删除
func (uc *DeleteBookUseCase) Execute(ctx context.Context, req DeleteBookRequest) (err error) {
	ctx, done := observe(ctx, OpDelete, attribute.String("book_id", req.ID))
	defer func() { done(err) }()

	return uc.bookService.DeleteBook(ctx, req.ID)
}

// DeleteAllBooksUseCase 清空图书用例
type DeleteAllBooksUseCase struct {
	bookService book.Service
}

// NewDeleteAllBooksUseCase 创建清空用例
func NewDeleteAllBooksUseCase(bookService book.Service) *DeleteAllBooksUseCase {
	return &DeleteAllBooksUseCase{
		bookService: bookService,
	}
}

// DeleteAllBooksResponse 清空响应DTO
type DeleteAllBooksResponse struct {
	Deleted int64 // 删除数量(集合为空时为0)
}

// Execute 执行清空
func (uc *DeleteAllBooksUseCase) Execute(ctx context.Context) (resp *DeleteAllBooksResponse, err error) {
	ctx, done := observe(ctx, OpDeleteAll)
	defer func() { done(err) }()

	n, err := uc.bookService.DeleteAllBooks(ctx)
	if err != nil {
		return nil, err
	}
	return &DeleteAllBooksResponse{Deleted: n}, nil
}
