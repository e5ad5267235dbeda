package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/pkg/metrics"
	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const tracerName = "bookcatalog/application/book"

// 用例操作名(Span名称后缀和指标operation标签)
const (
	OpList      = "list"
	OpCreate    = "create"
	OpGet       = "get"
	OpComment   = "comment"
	OpDelete    = "delete"
	OpDeleteAll = "delete_all"
)

// observe 为一次用例执行开启Span并在结束时记录指标
// 用法:
//
//	ctx, done := observe(ctx, OpGet, attribute.String("book_id", id))
//	defer func() { done(err) }()
func observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	metrics.InitMetrics()

	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "book."+op, attrs...)

	return ctx, func(err error) {
		kind := book.KindOf(err)
		tracing.EndSpan(span, kind.String(), err, kind == book.KindUnavailable)
		metrics.ObserveBookOperation(op, kind.String(), time.Since(start).Seconds())
	}
}
