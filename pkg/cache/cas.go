package cache

import (
	"context"
	"reflect"
	"time"
)

// CompareAndSwap 当前值与期望值结构相等时原子地替换为新值并刷新访问顺序。
// 整个读取-比较-写入序列在一个临界区内完成，与其他操作之间保持线性一致。
// 键不存在或已过期按不匹配处理。
func (c *Cache[V]) CompareAndSwap(ctx context.Context, key string, expected, newValue V) (bool, error) {
	if err := c.guard(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if entry.expired(time.Now()) {
		c.removeLocked(key)
		return false, nil
	}

	if !reflect.DeepEqual(entry.value, expected) {
		return false, nil
	}

	entry.value = newValue
	entry.createdAt = time.Now()
	c.recency.touch(key)
	return true, nil
}

// UpdateTTL 为存活条目重新计算过期时间，语义与 Set 的 ttl 参数一致。
// 键不存在或已过期时返回 false。
func (c *Cache[V]) UpdateTTL(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := c.guard(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	if entry.expired(now) {
		c.removeLocked(key)
		return false, nil
	}

	entry.expiresAt = c.expirationFor(ttl, now)
	return true, nil
}
