package util

import "errors"

// 业务错误分类，均在写入前返回并回滚整个事务
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyCompleted = errors.New("task already completed")
	ErrNotCompleted     = errors.New("task is not completed")
	ErrUnknownItem      = errors.New("unknown shop item")
	ErrInsufficientGold = errors.New("not enough gold")
	ErrInvalidState     = errors.New("invalid state")
	ErrPermissionDenied = errors.New("permission denied")
)
