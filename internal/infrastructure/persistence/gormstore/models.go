package gormstore

import (
	"time"
)

// BookModel GORM图书模型
// 设计说明:
// 1. ID为32位十六进制字符串,由应用生成(不使用自增)
// 2. CommentCount是冗余计数,只通过comment_count = comment_count + 1原子递增
// 3. 评论存放在book_comments表,一对多关联
type BookModel struct {
	ID           string         `gorm:"primaryKey;type:char(32);comment:图书ID"`
	Title        string         `gorm:"type:text;not null;comment:书名"`
	CommentCount int            `gorm:"not null;default:0;comment:评论数"`
	Comments     []CommentModel `gorm:"foreignKey:BookID"` // 一对多关联
	CreatedAt    time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt    time.Time      `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CommentModel GORM评论模型
// 评论顺序即自增ID顺序
type CommentModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    string    `gorm:"type:char(32);index;not null;comment:图书ID"`
	Body      string    `gorm:"type:text;not null;comment:评论内容"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (CommentModel) TableName() string {
	return "book_comments"
}
