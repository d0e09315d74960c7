package service

import (
	"errors"

	"sns-system/internal/model"
)

// wrapRepoErr 业务错误原样返回，其余包装为内部错误
func wrapRepoErr(message string, err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return model.NewInternalError(message, err)
}
