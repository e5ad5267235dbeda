package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// CreateBookUseCase 创建图书用例
// 设计说明:
// 1. 应用层负责用例编排,必填校验由领域服务负责
// 2. 输入输出使用DTO,与HTTP层解耦
type CreateBookUseCase struct {
	bookService book.Service
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(bookService book.Service) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService: bookService,
	}
}

// CreateBookRequest 创建请求DTO
type CreateBookRequest struct {
	Title string
}

// CreateBookResponse 创建响应DTO
type CreateBookResponse struct {
	ID    string
	Title string
}

// Execute 执行创建用例
func (uc *CreateBookUseCase) Execute(ctx context.Context, req CreateBookRequest) (resp *CreateBookResponse, err error) {
	ctx, done := observe(ctx, OpCreate)
	defer func() { done(err) }()

	b, err := uc.bookService.CreateBook(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	return &CreateBookResponse{
		ID:    b.ID,
		Title: b.Title,
	}, nil
}
