// Package apperr 定义跨领域的错误类型：校验错误、归档解析错误、未找到
package apperr

import (
	"errors"
	"fmt"
)

// ErrMalformedArchive 上传文件无法解析为有效归档
var ErrMalformedArchive = errors.New("malformed archive")

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// ValidationError 输入未通过前置校验，不会触发任何后端写入
type ValidationError struct {
	Field   string
	Message string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation 创建校验错误
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
