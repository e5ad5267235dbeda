// Package resilience 为图书仓储增加熔断保护
package resilience

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
)

// BreakerName 存储熔断器名称(日志和指标标签)
const BreakerName = "book-store"

// NewBreaker 按配置创建存储熔断器
// 只有存储不可用类错误计入失败;校验、不存在、格式错误都是正常结果
// breaker.enabled=false时返回nil
func NewBreaker(cfg config.BreakerConfig, log *logrus.Logger) *circuitbreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	threshold := cfg.ConsecutiveFailures
	cb := circuitbreaker.NewCircuitBreaker(BreakerName, circuitbreaker.Config{
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return book.KindOf(err) != book.KindUnavailable
		},
	})

	metrics.InitMetrics()
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": BreakerName}, float64(circuitbreaker.StateClosed))

	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))

		entry := log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()})
		if to == circuitbreaker.StateOpen {
			entry.Warn("存储熔断器打开")
			return
		}
		entry.Info("存储熔断器状态变化")
	})
	return cb
}

// breakerRepository 熔断保护的图书仓储(装饰器)
type breakerRepository struct {
	inner   book.Repository
	breaker *circuitbreaker.CircuitBreaker
}

// NewBookRepository 为仓储增加熔断保护
// breaker为nil(breaker.enabled=false)时直接返回原仓储
func NewBookRepository(inner book.Repository, breaker *circuitbreaker.CircuitBreaker) book.Repository {
	if breaker == nil {
		return inner
	}
	return &breakerRepository{inner: inner, breaker: breaker}
}

func (r *breakerRepository) Create(ctx context.Context, b *book.Book) error {
	return r.execute(func() error {
		return r.inner.Create(ctx, b)
	})
}

func (r *breakerRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	var books []*book.Book
	err := r.execute(func() error {
		var err error
		books, err = r.inner.FindAll(ctx)
		return err
	})
	return books, err
}

func (r *breakerRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	var b *book.Book
	err := r.execute(func() error {
		var err error
		b, err = r.inner.FindByID(ctx, id)
		return err
	})
	return b, err
}

func (r *breakerRepository) AppendComment(ctx context.Context, id string, comment string) (*book.Book, error) {
	var b *book.Book
	err := r.execute(func() error {
		var err error
		b, err = r.inner.AppendComment(ctx, id, comment)
		return err
	})
	return b, err
}

func (r *breakerRepository) Delete(ctx context.Context, id string) error {
	return r.execute(func() error {
		return r.inner.Delete(ctx, id)
	})
}

func (r *breakerRepository) DeleteAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.execute(func() error {
		var err error
		n, err = r.inner.DeleteAll(ctx)
		return err
	})
	return n, err
}

// execute 通过熔断器执行并记录结果
// 熔断打开时返回ErrStoreUnavailable(包装ErrOpenState)
func (r *breakerRepository) execute(fn func() error) error {
	err := r.breaker.Execute(fn)

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": r.breaker.Name(), "result": "rejected"})
		return apperrors.WrapCode(err, apperrors.ErrCodeStoreUnavailable, book.ErrStoreUnavailable.Message)
	case book.KindOf(err) == book.KindUnavailable:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": r.breaker.Name(), "result": result})
	return err
}
