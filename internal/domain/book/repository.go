package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 实现必须自行拒绝格式错误的ID(返回ErrMalformedID),不依赖调用方预先校验
// 3. 错误统一使用本包的错误定义,调用方通过KindOf分类
type Repository interface {
	// Create 创建图书,由存储分配ID并回填到book.ID
	Create(ctx context.Context, book *Book) error

	// FindAll 查询全部图书摘要
	// 返回的Book不加载Comments,只保证ID、Title、CommentCount
	FindAll(ctx context.Context) ([]*Book, error)

	// FindByID 根据ID查找图书(包含全部评论)
	FindByID(ctx context.Context, id string) (*Book, error)

	// AppendComment 追加评论(原子操作)
	// 追加评论与CommentCount+1在同一存储操作中完成,返回更新后的图书
	AppendComment(ctx context.Context, id string, comment string) (*Book, error)

	// Delete 删除单本图书及其评论
	Delete(ctx context.Context, id string) error

	// DeleteAll 删除全部图书,返回删除数量;集合为空时返回0
	DeleteAll(ctx context.Context) (int64, error)
}
