package redis

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
)

// cachedBookRepository 带读缓存的图书仓储(装饰器)
// 设计说明:
// 1. FindByID先查缓存,未命中再查数据库并回填
// 2. 追加评论、删除、清空后失效缓存
// 3. 回填以读库前的写入版本为条件,读库期间有失效则不回填
// 4. 缓存错误只记录日志,不影响请求结果
type cachedBookRepository struct {
	book.Repository
	cache *BookCache
	log   *logrus.Logger
}

// NewCachedBookRepository 为仓储增加详情缓存
// cache为nil(未启用Redis)时直接返回原仓储
func NewCachedBookRepository(inner book.Repository, cache *BookCache, log *logrus.Logger) book.Repository {
	if cache == nil {
		return inner
	}
	return &cachedBookRepository{Repository: inner, cache: cache, log: log}
}

// FindByID 读穿缓存
func (r *cachedBookRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	if !book.IsValidID(id) {
		return nil, book.ErrMalformedID
	}
	id = book.NormalizeID(id)

	// 1. 查缓存
	cached, err := r.cache.Get(ctx, id)
	if err != nil {
		// Redis不可用时直接回源,也不再回填
		r.log.WithError(err).WithField("book_id", id).Warn("读取图书缓存失败,回源数据库")
		return r.Repository.FindByID(ctx, id)
	}
	if cached != nil {
		return cached, nil
	}

	// 2. 读库前记录写入版本
	ver, verErr := r.cache.Version(ctx, id)

	// 3. 查数据库
	b, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if verErr != nil {
		r.log.WithError(verErr).WithField("book_id", id).Warn("读取图书缓存版本失败,跳过回填")
		return b, nil
	}

	// 4. 版本未变时回填缓存
	ok, err := r.cache.SetIfUnchanged(ctx, b, ver)
	switch {
	case err != nil:
		r.log.WithError(err).WithField("book_id", id).Warn("写入图书缓存失败")
	case !ok:
		r.log.WithField("book_id", id).Debug("读库期间图书被修改,跳过回填")
	}
	return b, nil
}

// AppendComment 追加评论后失效缓存
func (r *cachedBookRepository) AppendComment(ctx context.Context, id string, comment string) (*book.Book, error) {
	b, err := r.Repository.AppendComment(ctx, id, comment)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, b.ID)
	return b, nil
}

// Delete 删除后失效缓存
func (r *cachedBookRepository) Delete(ctx context.Context, id string) error {
	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, book.NormalizeID(id))
	return nil
}

// DeleteAll 清空后失效全部缓存
func (r *cachedBookRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := r.Repository.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.cache.Flush(ctx); err != nil {
		r.log.WithError(err).Warn("清空图书缓存失败")
	}
	return n, nil
}

func (r *cachedBookRepository) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.WithError(err).WithField("book_id", id).Warn("删除图书缓存失败")
	}
}
