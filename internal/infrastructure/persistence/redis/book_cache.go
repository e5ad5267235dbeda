package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// keyPrefix 图书详情缓存key前缀
// Key设计：book:detail:{id}，使用冒号分隔命名空间，便于SCAN批量清理
const keyPrefix = "book:detail:"

// 写入版本key
// book:version:{id} 每次追加评论、删除单本时递增
// book:version:all 每次清空时递增
const (
	versionPrefix   = "book:version:"
	flushVersionKey = versionPrefix + "all"
)

// versionTTL 单本版本key的过期时间,远大于一次回源查询的耗时
const versionTTL = 24 * time.Hour

// scanBatch 清空缓存时每批SCAN/DEL的数量
const scanBatch = 100

// BookCache 图书详情缓存
// 设计说明：
// 1. 只缓存GET /api/books/{id}的详情(含评论)
// 2. 值使用json序列化,过期时间由redis.detail_ttl控制
// 3. 追加评论、删除时由调用方失效对应key,同时递增写入版本
// 4. 回填前比较写入版本,读库期间发生过写入则放弃回填,避免旧数据覆盖失效
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Version 某本图书在读库前的写入版本快照
type Version struct {
	book string
	all  string
}

// cachedBook 缓存中的图书结构
type cachedBook struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Comments     []string `json:"comments"`
	CommentCount int      `json:"comment_count"`
}

// NewBookCache 创建图书缓存
// client为nil(未启用Redis)时返回nil
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	if client == nil {
		return nil
	}
	return &BookCache{client: client, ttl: ttl}
}

func cacheKey(id string) string {
	return keyPrefix + id
}

func versionKey(id string) string {
	return versionPrefix + id
}

// versionOf 把MGET结果转换为版本快照(key不存在时为空串)
func versionOf(vals []interface{}) Version {
	var v Version
	if s, ok := vals[0].(string); ok {
		v.book = s
	}
	if s, ok := vals[1].(string); ok {
		v.all = s
	}
	return v
}

// Get 读取缓存,未命中时返回(nil, nil)
func (c *BookCache) Get(ctx context.Context, id string) (*book.Book, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取图书缓存失败")
	}

	var cb cachedBook
	if err := json.Unmarshal(data, &cb); err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "解析图书缓存失败")
	}

	comments := cb.Comments
	if comments == nil {
		comments = []string{}
	}
	return &book.Book{
		ID:           cb.ID,
		Title:        cb.Title,
		Comments:     comments,
		CommentCount: cb.CommentCount,
	}, nil
}

// Version 读取写入版本,必须在读库之前调用
func (c *BookCache) Version(ctx context.Context, id string) (Version, error) {
	vals, err := c.client.MGet(ctx, versionKey(id), flushVersionKey).Result()
	if err != nil {
		return Version{}, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "读取图书缓存版本失败")
	}
	return versionOf(vals), nil
}

// SetIfUnchanged 写入版本仍等于ver时写入缓存
// 使用WATCH监视版本key:读库期间或写入前一刻有失效发生时放弃,返回false
func (c *BookCache) SetIfUnchanged(ctx context.Context, b *book.Book, ver Version) (bool, error) {
	data, err := json.Marshal(cachedBook{
		ID:           b.ID,
		Title:        b.Title,
		Comments:     b.Comments,
		CommentCount: b.CommentCount,
	})
	if err != nil {
		return false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "序列化图书缓存失败")
	}

	stale := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		// 1. 比较版本
		vals, err := tx.MGet(ctx, versionKey(b.ID), flushVersionKey).Result()
		if err != nil {
			return err
		}
		if versionOf(vals) != ver {
			stale = true
			return nil
		}

		// 2. 版本未变,在事务中写入(EXEC前版本被修改则整个事务放弃)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, cacheKey(b.ID), data, c.ttl)
			return nil
		})
		return err
	}, versionKey(b.ID), flushVersionKey)

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return false, nil
	case err != nil:
		return false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "写入图书缓存失败")
	}
	return !stale, nil
}

// Delete 失效单本图书的缓存
// 先递增版本再删除,正在回源的读请求不会把旧数据写回
func (c *BookCache) Delete(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), versionTTL)
		pipe.Del(ctx, cacheKey(id))
		return nil
	})
	if err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "删除图书缓存失败")
	}
	return nil
}

// Flush 清空全部图书缓存
// 1. 递增全局版本,阻止清空前开始的读请求回填
// 2. SCAN收集全部key后再分批DEL(边扫描边删除会让游标跳过部分key)
func (c *BookCache) Flush(ctx context.Context) error {
	if err := c.client.Incr(ctx, flushVersionKey).Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "递增图书缓存版本失败")
	}

	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "扫描图书缓存失败")
	}

	for start := 0; start < len(keys); start += scanBatch {
		end := min(start+scanBatch, len(keys))
		if err := c.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, fmt.Sprintf("清空图书缓存失败(%d个key)", end-start))
		}
	}
	return nil
}
