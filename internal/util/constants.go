package util

// 上下文键
const (
	ContextIdentity = "identity"
)
