package cache

import (
	"context"
	"time"
)

// BulkGet 在一次锁获取内按输入顺序逐键检索。
// 每个键独立地按 Get 的语义解析（含惰性过期和统计计数），
// 缺失或过期的键在结果中以 Found=false 标记，不会中断整批操作。
func (c *Cache[V]) BulkGet(ctx context.Context, keys []string) ([]BulkResult[V], error) {
	if err := c.guard(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	results := make([]BulkResult[V], 0, len(keys))
	for _, key := range keys {
		value, found := c.getLocked(key, now)
		results = append(results, BulkResult[V]{
			Key:   key,
			Value: value,
			Found: found,
		})
	}
	return results, nil
}

// BulkSet 在一次锁获取内按输入顺序逐条写入，
// 可观测效果等价于依次调用 Set，淘汰决策反映同批次中先写入的条目。
func (c *Cache[V]) BulkSet(ctx context.Context, items []Item[V]) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, item := range items {
		c.setLocked(item.Key, item.Value, item.TTL, now)
	}
	return nil
}
