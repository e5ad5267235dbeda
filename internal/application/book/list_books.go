package book

import (
	"context"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 列表只返回摘要(ID、书名、评论数),不返回评论内容
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// BookSummary 列表项DTO
type BookSummary struct {
	ID           string
	Title        string
	CommentCount int
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List []BookSummary
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context) (resp *ListBooksResponse, err error) {
	ctx, done := observe(ctx, OpList)
	defer func() { done(err) }()

	books, err := uc.bookService.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	// 转换为DTO(空集合返回空列表而不是nil)
	list := make([]BookSummary, len(books))
	for i, b := range books {
		list[i] = BookSummary{
			ID:           b.ID,
			Title:        b.Title,
			CommentCount: b.CommentCount,
		}
	}

	return &ListBooksResponse{List: list}, nil
}
