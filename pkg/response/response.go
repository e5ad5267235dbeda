// Package response HTTP响应输出
//
// 图书接口直接输出资源本身(JSON对象/数组)或纯文本消息,状态码恒为200;
// 只有存储不可用时返回500。运维接口(/ping)使用统一的Response包装结构。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
)

// MsgInternalError 存储故障时返回给客户端的文本,不暴露内部错误
const MsgInternalError = "internal server error"

// Response 统一响应结构(运维接口使用)
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应（自动处理AppError）
// status由调用方决定,例如健康检查失败时返回503
func Error(c *gin.Context, status int, err error) {
	appErr := apperrors.GetAppError(err)
	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}

// JSON 直接输出资源(状态码200,不包装)
// 用法：
//
//	response.JSON(c, dto.NewBookDetail(detail))
func JSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Text 输出纯文本消息(状态码200)
// 校验失败、图书不存在、删除成功都属于正常结果,统一使用Text
func Text(c *gin.Context, message string) {
	c.String(http.StatusOK, message)
}

// InternalError 存储故障响应(状态码500)
func InternalError(c *gin.Context) {
	c.String(http.StatusInternalServerError, MsgInternalError)
}
