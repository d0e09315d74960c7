package model

import (
	"errors"
	"fmt"
)

// 错误码
const (
	CodeNotFound        = "NOT_FOUND"
	CodeForbidden       = "FORBIDDEN"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeValidation      = "VALIDATION_ERROR"
	CodeDomainRejection = "DOMAIN_REJECTION"
	CodeInternal        = "INTERNAL_ERROR"
)

// AppError 业务错误，由 handler 统一翻译成响应
type AppError struct {
	Code    string
	Message string
	// Fields 表单字段级错误，字段名 -> 错误信息
	Fields map[string][]string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Message: message}
}

// NewValidationError 创建校验错误，fields 可为空
func NewValidationError(message string, fields map[string][]string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Fields: fields}
}

// NewDomainRejection 业务规则拒绝（如关注自己），不改变任何状态
func NewDomainRejection(message string) *AppError {
	return &AppError{Code: CodeDomainRejection, Message: message}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: err}
}

// ErrorCode 取出错误码，非 AppError 视为内部错误
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsNotFound 判断是否为不存在错误
func IsNotFound(err error) bool {
	return err != nil && ErrorCode(err) == CodeNotFound
}
