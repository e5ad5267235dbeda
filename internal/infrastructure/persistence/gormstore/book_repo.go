package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// maxCreateAttempts ID冲突时的最大尝试次数
const maxCreateAttempts = 3

// bookRepository 图书仓储实现(GORM)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 驱动错误统一包装为ErrCodeStoreUnavailable,记录不存在转换为book.ErrBookNotFound
// 4. 自行校验ID格式,不依赖调用方
type bookRepository struct {
	db *gorm.DB
	tx *TxManager
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB, tx *TxManager) book.Repository {
	return &bookRepository{db: db, tx: tx}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	var lastErr error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		// 1. 领域实体 → GORM模型(由存储分配ID)
		model := &BookModel{
			ID:           book.NewID(),
			Title:        b.Title,
			CommentCount: 0,
		}

		// 2. 插入数据库
		err := r.getDB(ctx).Create(model).Error
		if err == nil {
			// 3. 回填ID和时间
			b.ID = model.ID
			b.CreatedAt = model.CreatedAt
			b.UpdatedAt = model.UpdatedAt
			b.Comments = []string{}
			b.CommentCount = 0
			return nil
		}

		// ID冲突时重新生成
		if !isDuplicateError(err) {
			return storeError(err, "创建图书失败")
		}
		lastErr = err
	}
	return storeError(lastErr, "创建图书失败: ID冲突")
}

// FindAll 查询全部图书摘要(不加载评论)
func (r *bookRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	err := r.getDB(ctx).
		Select("id", "title", "comment_count", "created_at", "updated_at").
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, storeError(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// FindByID 根据ID查找图书(预加载评论)
func (r *bookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	if !book.IsValidID(id) {
		return nil, book.ErrMalformedID
	}

	model, err := r.loadWithComments(r.getDB(ctx), book.NormalizeID(id))
	if err != nil {
		return nil, err
	}
	return toBookEntity(model), nil
}

// AppendComment 追加评论(原子操作)
// 要点:
// 1. UPDATE books SET comment_count = comment_count + 1 与 INSERT book_comments 在同一事务
// 2. UPDATE影响0行说明图书不存在,直接回滚
// 3. 在事务内重新读取,返回的计数与评论列表一致
func (r *bookRepository) AppendComment(ctx context.Context, id string, comment string) (*book.Book, error) {
	if !book.IsValidID(id) {
		return nil, book.ErrMalformedID
	}
	id = book.NormalizeID(id)

	var updated *BookModel
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := r.getDB(ctx)

		// 1. 原子递增评论计数
		result := db.Model(&BookModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"comment_count": gorm.Expr("comment_count + ?", 1),
				"updated_at":    time.Now().UTC(),
			})
		if result.Error != nil {
			return storeError(result.Error, "更新评论数失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}

		// 2. 追加评论
		if err := db.Create(&CommentModel{BookID: id, Body: comment}).Error; err != nil {
			return storeError(err, "追加评论失败")
		}

		// 3. 重新读取
		model, err := r.loadWithComments(db, id)
		if err != nil {
			return err
		}
		updated = model
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toBookEntity(updated), nil
}

// Delete 删除图书及其评论(硬删除)
func (r *bookRepository) Delete(ctx context.Context, id string) error {
	if !book.IsValidID(id) {
		return book.ErrMalformedID
	}
	id = book.NormalizeID(id)

	return r.tx.Transaction(ctx, func(ctx context.Context) error {
		db := r.getDB(ctx)

		result := db.Where("id = ?", id).Delete(&BookModel{})
		if result.Error != nil {
			return storeError(result.Error, "删除图书失败")
		}
		if result.RowsAffected == 0 {
			return book.ErrBookNotFound
		}

		if err := db.Where("book_id = ?", id).Delete(&CommentModel{}).Error; err != nil {
			return storeError(err, "删除评论失败")
		}
		return nil
	})
}

// DeleteAll 删除全部图书,返回删除数量
func (r *bookRepository) DeleteAll(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.tx.Transaction(ctx, func(ctx context.Context) error {
		// 不带条件的DELETE需要显式允许
		db := r.getDB(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})

		if err := db.Delete(&CommentModel{}).Error; err != nil {
			return storeError(err, "清空评论失败")
		}

		result := db.Delete(&BookModel{})
		if result.Error != nil {
			return storeError(result.Error, "清空图书失败")
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// loadWithComments 查询图书并按追加顺序预加载评论
func (r *bookRepository) loadWithComments(db *gorm.DB, id string) (*BookModel, error) {
	var model BookModel
	err := db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, storeError(err, "查询图书失败")
	}
	return &model, nil
}

// =========================================
// 辅助函数
// =========================================

// toBookEntity GORM模型 → 领域实体
// 列表查询未预加载评论时Comments为空切片
func toBookEntity(model *BookModel) *book.Book {
	comments := make([]string, len(model.Comments))
	for i, c := range model.Comments {
		comments[i] = c.Body
	}
	return &book.Book{
		ID:           model.ID,
		Title:        model.Title,
		Comments:     comments,
		CommentCount: model.CommentCount,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// storeError 包装驱动错误为存储不可用
func storeError(err error, message string) error {
	return apperrors.WrapCode(err, apperrors.ErrCodeStoreUnavailable, message)
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *bookRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}
