package book

import (
	"errors"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// 客户端可见的固定提示
const (
	MsgNoBookExists             = "no book exists"
	MsgDeleteSuccessful         = "delete successful"
	MsgCompleteDeleteSuccessful = "complete delete successful"
)

// 图书领域错误定义
// 格式错误和不存在对客户端返回同一提示,防止通过响应差异探测ID格式
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, MsgNoBookExists)

	// ErrMalformedID ID格式不正确
	ErrMalformedID = apperrors.New(apperrors.ErrCodeMalformedID, MsgNoBookExists)

	// ErrStoreUnavailable 存储不可用(熔断打开等)
	ErrStoreUnavailable = apperrors.New(apperrors.ErrCodeStoreUnavailable, "book store unavailable")

	// ErrTitleRequired 缺少书名
	ErrTitleRequired = &ValidationError{Field: "title"}

	// ErrCommentRequired 缺少评论内容
	ErrCommentRequired = &ValidationError{Field: "comment"}
)

// ValidationError 必填字段校验失败
// 在调用存储之前返回
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "missing required field " + e.Field
}

// ErrorKind 存储/领域错误分类
// handler只按分类分支,不检查错误名称或文本
type ErrorKind int

const (
	KindNone        ErrorKind = iota // 无错误
	KindValidation                   // 必填字段缺失
	KindNotFound                     // 图书不存在
	KindMalformedID                  // ID格式不正确
	KindUnavailable                  // 存储不可用或未知错误
)

// String 分类名称(用于日志和指标标签)
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindMalformedID:
		return "malformed_id"
	default:
		return "unavailable"
	}
}

// KindOf 对错误进行分类
// 未识别的错误一律视为存储不可用
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return KindValidation
	}

	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeBookNotFound, apperrors.ErrCodeNotFound:
		return KindNotFound
	case apperrors.ErrCodeMalformedID:
		return KindMalformedID
	default:
		return KindUnavailable
	}
}
