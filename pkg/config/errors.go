package config

import (
	"errors"
	"fmt"
)

// Error 配置校验错误
// Field 为出错字段的 YAML 路径，例如 "trail.durations[1]"
type Error struct {
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid effect config: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid effect config: %s: %s", e.Field, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(field, reason string) error {
	return &Error{Field: field, Reason: reason}
}

func wrapError(field string, err error) error {
	return &Error{Field: field, Reason: err.Error(), Err: err}
}

// IsConfigError 判断错误链中是否包含配置校验错误
func IsConfigError(err error) bool {
	var cfgErr *Error
	return errors.As(err, &cfgErr)
}
