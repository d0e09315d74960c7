package response

import (
	"errors"
	"net/http"

	"sns-system/internal/model"

	"github.com/gin-gonic/gin"
)

// Response 统一JSON响应结构
type Response struct {
	Code    int         `json:"code"`            // 状态码：0表示成功，其他与HTTP状态一致
	Message string      `json:"message"`         // 响应消息
	Data    interface{} `json:"data,omitempty"`  // 响应数据
	Error   string      `json:"error,omitempty"` // 错误详情（仅在开发环境显示）
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应，HTTP状态码与 code 一致
func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorWithDetails 带错误详情的错误响应
func ErrorWithDetails(c *gin.Context, code int, message string, err error) {
	resp := Response{
		Code:    code,
		Message: message,
	}

	// 在开发环境下显示错误详情
	if gin.Mode() == gin.DebugMode && err != nil {
		resp.Error = err.Error()
	}

	c.AbortWithStatusJSON(code, resp)
}

// StatusFor 业务错误码对应的HTTP状态
// 校验失败与业务拒绝属于用户可见提示，返回200
func StatusFor(err error) int {
	switch model.ErrorCode(err) {
	case model.CodeNotFound:
		return http.StatusNotFound
	case model.CodeForbidden:
		return http.StatusForbidden
	case model.CodeUnauthenticated:
		return http.StatusUnauthorized
	case model.CodeValidation, model.CodeDomainRejection:
		return http.StatusOK
	default:
		return http.StatusInternalServerError
	}
}

// FromError 将业务错误写成JSON响应，内部错误不向外暴露细节
func FromError(c *gin.Context, err error) {
	var appErr *model.AppError
	if !errors.As(err, &appErr) || appErr.Code == model.CodeInternal {
		ErrorWithDetails(c, http.StatusInternalServerError, "internal server error", err)
		return
	}
	status := StatusFor(err)
	if status == http.StatusOK {
		status = http.StatusBadRequest
	}
	Error(c, status, appErr.Message)
}
