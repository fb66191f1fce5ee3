package service

import "errors"

// ErrUnauthorized 没有有效会话
var ErrUnauthorized = errors.New("Unauthorized")

// Identity 会话解析出的调用者，由 handler 显式传给 service
type Identity struct {
	UserID int64
	Email  string
}

// Valid 零值 Identity 表示未登录
func (i Identity) Valid() bool {
	return i.UserID > 0
}
