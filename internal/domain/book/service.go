package book

import (
	"context"
	"strings"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验(必填字段、ID格式)
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 校验失败时不访问存储
type Service interface {
	// ListBooks 查询全部图书摘要
	ListBooks(ctx context.Context) ([]*Book, error)

	// CreateBook 创建图书
	// 业务规则:书名去除首尾空白后不能为空
	CreateBook(ctx context.Context, title string) (*Book, error)

	// GetBook 根据ID获取图书详情(含评论)
	// 业务规则:ID格式不合法时返回ErrMalformedID,不访问存储
	GetBook(ctx context.Context, id string) (*Book, error)

	// AddComment 为图书追加评论
	// 业务规则:
	// - 先校验评论内容,再校验ID
	// - 评论追加与计数递增是原子操作
	AddComment(ctx context.Context, id, comment string) (*Book, error)

	// DeleteBook 删除单本图书
	DeleteBook(ctx context.Context, id string) error

	// DeleteAllBooks 删除全部图书,集合为空时同样成功
	DeleteAllBooks(ctx context.Context) (int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ListBooks 查询全部图书
func (s *service) ListBooks(ctx context.Context) ([]*Book, error) {
	return s.repo.FindAll(ctx)
}

// CreateBook 创建图书
func (s *service) CreateBook(ctx context.Context, title string) (*Book, error) {
	// 1. 必填校验
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	// 2. 创建实体
	book := NewBook(title)

	// 3. 持久化(由存储分配ID)
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

// GetBook 根据ID获取图书
func (s *service) GetBook(ctx context.Context, id string) (*Book, error) {
	if !IsValidID(id) {
		return nil, ErrMalformedID
	}
	return s.repo.FindByID(ctx, NormalizeID(id))
}

// AddComment 追加评论
func (s *service) AddComment(ctx context.Context, id, comment string) (*Book, error) {
	// 1. 评论必填校验(优先于ID校验)
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}

	// 2. ID格式校验
	if !IsValidID(id) {
		return nil, ErrMalformedID
	}

	// 3. 原子追加
	return s.repo.AppendComment(ctx, NormalizeID(id), comment)
}

// DeleteBook 删除单本图书
func (s *service) DeleteBook(ctx context.Context, id string) error {
	if !IsValidID(id) {
		return ErrMalformedID
	}
	return s.repo.Delete(ctx, NormalizeID(id))
}

// DeleteAllBooks 删除全部图书
func (s *service) DeleteAllBooks(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}
