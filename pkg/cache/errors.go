package cache

import (
	"kvcache/pkg/error"
)

// CacheError 缓存模块的错误类型
type CacheError struct {
	error.BaseError
}

const (
	// ErrCacheClosed 表示缓存实例已被关闭。
	ErrCacheClosed error.ErrorCode = "CACHE_CLOSED"
	// ErrCacheCorrupted 表示缓存内部状态已损坏，该实例不可再使用。
	ErrCacheCorrupted error.ErrorCode = "CACHE_CORRUPTED"
	// ErrConfigInvalid 表示缓存配置不合法。
	ErrConfigInvalid error.ErrorCode = "CONFIG_INVALID"
	// ErrKeyNotFound 表示在缓存中未找到请求的键。
	ErrKeyNotFound error.ErrorCode = "KEY_NOT_FOUND"
)

var (
	ErrClosed    = NewCacheError(ErrCacheClosed, "cache is closed")
	ErrCorrupted = NewCacheError(ErrCacheCorrupted, "cache state is corrupted")
	ErrNotFound  = NewCacheError(ErrKeyNotFound, "cache entry not found")
)

// NewCacheError 创建缓存错误
func NewCacheError(code error.ErrorCode, message string) *CacheError {
	return &CacheError{
		BaseError: *error.NewError(code, message),
	}
}
