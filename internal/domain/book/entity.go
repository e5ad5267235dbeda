package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. ID由存储层在创建时分配,创建后不可变
// 2. Title创建后不可修改(没有修改书名的接口)
// 3. Comments只能追加,CommentCount是冗余计数,始终等于len(Comments)
// 4. 追加与递增由Repository.AppendComment在一次存储操作中完成
type Book struct {
	ID           string
	Title        string   // 书名(非空)
	Comments     []string // 评论列表(按追加顺序)
	CommentCount int      // 评论数(冗余字段,与评论追加在同一存储操作中递增)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewBook 创建新图书(工厂方法)
// 评论为空、计数为0;ID由Repository.Create回填
func NewBook(title string) *Book {
	now := time.Now()
	return &Book{
		Title:        title,
		Comments:     []string{},
		CommentCount: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
