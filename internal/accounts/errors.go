package accounts

import "errors"

var (
	ErrCodeNotFound = errors.New("邀请码不存在")
	ErrCodeUsed     = errors.New("邀请码已被使用")
)
