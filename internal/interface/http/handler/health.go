package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Pinger 存储健康检查接口
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	pinger Pinger
	log    *logrus.Logger
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(pinger Pinger, log *logrus.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, log: log}
}

// Ping 健康检查
// @Summary      健康检查
// @Description  检查服务与数据库连通性
// @Tags         运维
// @Produce      json
// @Success      200 {object} response.Response
// @Failure      503 {object} response.Response "数据库不可用"
// @Router       /ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.log.WithError(err).Warn("数据库健康检查失败")
		response.Error(c, http.StatusServiceUnavailable,
			apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "database unavailable"))
		return
	}

	response.Success(c, gin.H{
		"message": "pong",
		"status":  "healthy",
	})
}
