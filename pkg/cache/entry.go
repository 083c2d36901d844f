package cache

import (
	"time"
)

// cacheEntry 缓存中的一个条目，由 Cache 独占持有
type cacheEntry[V any] struct {
	value       V
	createdAt   time.Time // 插入或最近一次覆盖的时间
	expiresAt   time.Time // 过期时间点，零值表示永不过期
	accessCount int64
}

// expired 判断条目在给定时刻是否已过期
func (e *cacheEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
