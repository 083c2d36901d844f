// Package cache 提供进程内线程安全的键值缓存，支持TTL过期（惰性+后台清理）、
// LRU淘汰、批量操作、CAS原子更新和命中统计。值类型在构造时通过泛型参数固定。
package cache

import (
	"context"
	"time"
)

// Store 定义了缓存引擎对外暴露的通用接口。
type Store[V any] interface {
	// Get 根据键检索一个存活的条目，键不存在或已过期时返回 false。
	Get(ctx context.Context, key string) (V, bool, error)
	// Set 写入一个键值对，ttl 为 DefaultExpiration 时使用默认TTL，
	// 为 NoExpiration 时永不过期。
	Set(ctx context.Context, key string, value V, ttl time.Duration) error
	// Delete 删除一个键，返回是否确实删除了条目。
	Delete(ctx context.Context, key string) (bool, error)
	// BulkGet 按输入顺序逐键检索，每个键的行为与 Get 完全一致。
	BulkGet(ctx context.Context, keys []string) ([]BulkResult[V], error)
	// BulkSet 按输入顺序逐条写入，效果等价于依次调用 Set。
	BulkSet(ctx context.Context, items []Item[V]) error
	// CompareAndSwap 当前值与期望值相等时原子地替换为新值。
	CompareAndSwap(ctx context.Context, key string, expected, newValue V) (bool, error)
	// UpdateTTL 为存活条目重新设置过期时间，键不存在或已过期时返回 false。
	UpdateTTL(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Stats 返回当前统计信息快照。
	Stats() Stats
	// Clear 清空所有条目，统计计数器保持不变。
	Clear(ctx context.Context) error
	// Close 停止后台清理并关闭缓存。
	Close() error
}

// Item 批量写入的一个条目
type Item[V any] struct {
	Key   string
	Value V
	TTL   time.Duration
}

// BulkResult 批量读取中单个键的结果
type BulkResult[V any] struct {
	Key   string
	Value V
	Found bool
}
