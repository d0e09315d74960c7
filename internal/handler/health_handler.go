package handler

import (
	"context"
	"net/http"
	"time"

	"sns-system/pkg/logger"
	"sns-system/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck 依赖检查函数
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	db    HealthCheck
	redis HealthCheck
}

// NewHealthHandler redis 为 nil 表示未启用
func NewHealthHandler(db, redis HealthCheck) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health 健康检查，数据库不可用时返回503
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, dbStatus, redisStatus := "ok", "ok", "disabled"
	if err := h.db(ctx); err != nil {
		logger.Warn("数据库健康检查失败", zap.Error(err))
		status, dbStatus = "degraded", "down"
	}
	if h.redis != nil {
		redisStatus = "ok"
		if err := h.redis(ctx); err != nil {
			logger.Warn("Redis健康检查失败", zap.Error(err))
			redisStatus = "down"
		}
	}

	body := gin.H{
		"status": status,
		"db":     dbStatus,
		"redis":  redisStatus,
		"time":   time.Now().Format(time.RFC3339),
	}
	if dbStatus != "ok" {
		c.JSON(http.StatusServiceUnavailable, response.Response{Code: http.StatusServiceUnavailable, Message: "database unavailable", Data: body})
		return
	}
	response.Success(c, body)
}
