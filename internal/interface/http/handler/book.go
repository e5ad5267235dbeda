package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/domain/book"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/internal/interface/http/middleware"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// BookHandler 图书HTTP处理器
// 所有正常结果(包括校验失败、图书不存在)返回200;存储故障返回500
type BookHandler struct {
	listBooksUseCase      *appbook.ListBooksUseCase
	createBookUseCase     *appbook.CreateBookUseCase
	getBookUseCase        *appbook.GetBookUseCase
	addCommentUseCase     *appbook.AddCommentUseCase
	deleteBookUseCase     *appbook.DeleteBookUseCase
	deleteAllBooksUseCase *appbook.DeleteAllBooksUseCase
	log                   *logrus.Logger
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	listBooksUseCase *appbook.ListBooksUseCase,
	createBookUseCase *appbook.CreateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	addCommentUseCase *appbook.AddCommentUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	deleteAllBooksUseCase *appbook.DeleteAllBooksUseCase,
	log *logrus.Logger,
) *BookHandler {
	return &BookHandler{
		listBooksUseCase:      listBooksUseCase,
		createBookUseCase:     createBookUseCase,
		getBookUseCase:        getBookUseCase,
		addCommentUseCase:     addCommentUseCase,
		deleteBookUseCase:     deleteBookUseCase,
		deleteAllBooksUseCase: deleteAllBooksUseCase,
		log:                   log,
	}
}

// ListBooks 查询图书列表
// @Summary      查询图书列表
// @Description  返回全部图书摘要(不含评论内容)
// @Tags         图书
// @Produce      json
// @Success      200 {array}  dto.BookSummaryResponse
// @Failure      500 {string} string "internal server error"
// @Router       /api/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	log := h.entry(c, appbook.OpList)

	result, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		h.fail(c, log, err)
		return
	}

	log.WithField("count", len(result.List)).Info("图书列表查询完成")
	response.JSON(c, dto.NewBookSummaries(result.List))
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  书名必填(去除首尾空白后不能为空),支持JSON和表单提交
// @Tags         图书
// @Accept       json,x-www-form-urlencoded
// @Produce      json,plain
// @Param        request body dto.CreateBookRequest true "图书信息"
// @Success      200 {object} dto.CreateBookResponse
// @Success      200 {string} string "missing required field title"
// @Failure      500 {string} string "internal server error"
// @Router       /api/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	log := h.entry(c, appbook.OpCreate)

	// 1. 参数绑定(绑定失败按缺少字段处理)
	var req dto.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		log.WithError(err).Debug("请求体解析失败")
	}

	// 2. 调用应用层用例
	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Title: req.Title,
	})
	if err != nil {
		h.fail(c, log.WithField("title", req.Title), err)
		return
	}

	// 3. 构建HTTP响应
	log.WithFields(logrus.Fields{"book_id": result.ID, "title": result.Title}).Info("图书创建成功")
	response.JSON(c, &dto.CreateBookResponse{
		ID:    result.ID,
		Title: result.Title,
	})
}

// DeleteAllBooks 清空图书
// @Summary      删除全部图书
// @Tags         图书
// @Produce      plain
// @Success      200 {string} string "complete delete successful"
// @Failure      500 {string} string "internal server error"
// @Router       /api/books [delete]
func (h *BookHandler) DeleteAllBooks(c *gin.Context) {
	log := h.entry(c, appbook.OpDeleteAll)

	result, err := h.deleteAllBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		h.fail(c, log, err)
		return
	}

	log.WithField("deleted", result.Deleted).Info("图书已全部删除")
	response.Text(c, book.MsgCompleteDeleteSuccessful)
}

// GetBook 查询图书详情
// @Summary      查询图书详情
// @Description  返回图书及全部评论;ID格式错误或不存在时返回"no book exists"
// @Tags         图书
// @Produce      json,plain
// @Param        id path string true "图书ID"
// @Success      200 {object} dto.BookDetailResponse
// @Success      200 {string} string "no book exists"
// @Failure      500 {string} string "internal server error"
// @Router       /api/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id := c.Param("id")
	log := h.entry(c, appbook.OpGet).WithField("book_id", id)

	result, err := h.getBookUseCase.Execute(c.Request.Context(), appbook.GetBookRequest{ID: id})
	if err != nil {
		h.fail(c, log, err)
		return
	}

	log.WithField("commentcount", result.CommentCount).Info("图书查询成功")
	response.JSON(c, dto.NewBookDetail(result))
}

// AddComment 追加评论
// @Summary      追加评论
// @Description  评论必填,校验优先于ID;成功返回更新后的完整图书
// @Tags         图书
// @Accept       json,x-www-form-urlencoded
// @Produce      json,plain
// @Param        id      path string                true "图书ID"
// @Param        request body dto.AddCommentRequest true "评论"
// @Success      200 {object} dto.BookDetailResponse
// @Success      200 {string} string "missing required field comment"
// @Success      200 {string} string "no book exists"
// @Failure      500 {string} string "internal server error"
// @Router       /api/books/{id} [post]
func (h *BookHandler) AddComment(c *gin.Context) {
	id := c.Param("id")
	log := h.entry(c, appbook.OpComment).WithField("book_id", id)

	var req dto.AddCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		log.WithError(err).Debug("请求体解析失败")
	}

	result, err := h.addCommentUseCase.Execute(c.Request.Context(), appbook.AddCommentRequest{
		ID:      id,
		Comment: req.Comment,
	})
	if err != nil {
		h.fail(c, log, err)
		return
	}

	log.WithField("commentcount", result.CommentCount).Info("评论追加成功")
	response.JSON(c, dto.NewBookDetail(result))
}

// DeleteBook 删除图书
// @Summary      删除单本图书
// @Tags         图书
// @Produce      plain
// @Param        id path string true "图书ID"
// @Success      200 {string} string "delete successful"
// @Success      200 {string} string "no book exists"
// @Failure      500 {string} string "internal server error"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id := c.Param("id")
	log := h.entry(c, appbook.OpDelete).WithField("book_id", id)

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), appbook.DeleteBookRequest{ID: id}); err != nil {
		h.fail(c, log, err)
		return
	}

	log.Info("图书已删除")
	response.Text(c, book.MsgDeleteSuccessful)
}

// entry 创建带请求上下文字段的日志条目
func (h *BookHandler) entry(c *gin.Context, op string) *logrus.Entry {
	return h.log.WithFields(logrus.Fields{
		"op":         op,
		"request_id": middleware.GetRequestID(c),
	})
}

// fail 按错误分类输出响应
// 1. 校验失败: 原样输出字段缺失提示
// 2. ID格式错误/不存在: 统一输出"no book exists"
// 3. 其它(存储故障、熔断): 记录错误日志并返回500
func (h *BookHandler) fail(c *gin.Context, log *logrus.Entry, err error) {
	switch book.KindOf(err) {
	case book.KindValidation:
		log.WithError(err).Info("参数校验失败")
		response.Text(c, err.Error())
	case book.KindNotFound, book.KindMalformedID:
		log.Info("图书不存在")
		response.Text(c, book.MsgNoBookExists)
	default:
		log.WithError(err).Error("存储操作失败")
		_ = c.Error(err)
		response.InternalError(c)
	}
}
