package dto

import (
	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
)

// CreateBookRequest 创建图书请求
// 同时支持JSON和表单(application/x-www-form-urlencoded)提交
// 书名的必填校验由领域服务完成(去除首尾空白后为空视为缺失)
type CreateBookRequest struct {
	Title string `json:"title" form:"title" example:"Dune"`
}

// AddCommentRequest 追加评论请求
type AddCommentRequest struct {
	Comment string `json:"comment" form:"comment" example:"great read"`
}

// BookSummaryResponse 列表项响应(不含评论内容)
type BookSummaryResponse struct {
	ID           string `json:"_id" example:"5f1c0e7a9b3d4c2e8f6a1b0c9d8e7f6a"`
	Title        string `json:"title" example:"Dune"`
	CommentCount int    `json:"commentcount" example:"2"`
}

// CreateBookResponse 创建响应
type CreateBookResponse struct {
	ID    string `json:"_id" example:"5f1c0e7a9b3d4c2e8f6a1b0c9d8e7f6a"`
	Title string `json:"title" example:"Dune"`
}

// BookDetailResponse 图书详情响应
// comments始终输出为数组(没有评论时为[])
type BookDetailResponse struct {
	ID           string   `json:"_id" example:"5f1c0e7a9b3d4c2e8f6a1b0c9d8e7f6a"`
	Title        string   `json:"title" example:"Dune"`
	Comments     []string `json:"comments"`
	CommentCount int      `json:"commentcount" example:"2"`
}

// NewBookSummaries 转换列表响应
func NewBookSummaries(list []appbook.BookSummary) []BookSummaryResponse {
	out := make([]BookSummaryResponse, len(list))
	for i, s := range list {
		out[i] = BookSummaryResponse{
			ID:           s.ID,
			Title:        s.Title,
			CommentCount: s.CommentCount,
		}
	}
	return out
}

// NewBookDetail 转换详情响应
func NewBookDetail(d *appbook.BookDetail) *BookDetailResponse {
	comments := d.Comments
	if comments == nil {
		comments = []string{}
	}
	return &BookDetailResponse{
		ID:           d.ID,
		Title:        d.Title,
		Comments:     comments,
		CommentCount: d.CommentCount,
	}
}
