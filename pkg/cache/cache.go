package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"kvcache/pkg/logger"
)

// Cache 线程安全的进程内键值缓存。
// entries 与 recency 构成一个逻辑资源，由同一把读写锁保护，
// 任何操作完成后两者的键集合保持一致。
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry[V]
	recency *lruTracker
	stats   statsCollector
	config  Config

	lastCleanup time.Time

	janitor   *janitor
	closed    int32 // atomic
	corrupted int32 // atomic
	log       *logrus.Entry
}

// New 创建缓存实例并启动后台清理协程
func New[V any](config Config) (*Cache[V], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config = config.withDefaults()

	c := &Cache[V]{
		entries:     make(map[string]*cacheEntry[V]),
		recency:     newLRUTracker(),
		config:      config,
		lastCleanup: time.Now(),
		janitor:     newJanitor(config.CleanupInterval),
		log:         logger.WithComponent("cache"),
	}

	go c.runJanitor()

	return c, nil
}

// guard 检查实例是否仍然可用
func (c *Cache[V]) guard() error {
	if atomic.LoadInt32(&c.corrupted) == 1 {
		return ErrCorrupted
	}
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClosed
	}
	return nil
}

// Get 获取缓存值。键不存在或已过期时返回零值和 false，不视为错误。
// 命中会刷新条目的访问顺序，因此统一持有写锁，
// 过期条目的检测与删除在同一临界区内完成。
func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if err := c.guard(); err != nil {
		return zero, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	value, found := c.getLocked(key, time.Now())
	if !found {
		return zero, false, nil
	}
	return value, true, nil
}

// getLocked 单键读取逻辑，需要持有写锁
func (c *Cache[V]) getLocked(key string, now time.Time) (V, bool) {
	var zero V

	entry, ok := c.entries[key]
	if !ok {
		c.stats.miss()
		return zero, false
	}

	if entry.expired(now) {
		// 惰性过期：已过期的条目绝不返回给调用方
		c.removeLocked(key)
		c.stats.miss()
		return zero, false
	}

	entry.accessCount++
	c.recency.touch(key)
	c.stats.hit()
	return entry.value, true
}

// Set 设置缓存值。新键在容量已满时先淘汰最久未使用的条目。
func (c *Cache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setLocked(key, value, ttl, time.Now())
	return nil
}

// setLocked 单键写入逻辑，需要持有写锁
func (c *Cache[V]) setLocked(key string, value V, ttl time.Duration, now time.Time) {
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.config.MaxSize {
		c.evictLocked()
	}

	c.entries[key] = &cacheEntry[V]{
		value:     value,
		createdAt: now,
		expiresAt: c.expirationFor(ttl, now),
	}
	c.recency.touch(key)
	c.stats.set()
}

// expirationFor 计算生效的过期时间点：
// 显式TTL优先，其次为配置的 DefaultTTL，零值表示永不过期。
func (c *Cache[V]) expirationFor(ttl time.Duration, now time.Time) time.Time {
	switch {
	case ttl > 0:
		return now.Add(ttl)
	case ttl == DefaultExpiration && c.config.DefaultTTL > 0:
		return now.Add(c.config.DefaultTTL)
	default:
		// NoExpiration 或未配置默认TTL
		return time.Time{}
	}
}

// evictLocked 淘汰最久未使用的条目，需要持有写锁
func (c *Cache[V]) evictLocked() {
	key, ok := c.recency.victim()
	if !ok {
		return
	}
	c.removeLocked(key)
	c.stats.evict()
}

// removeLocked 是唯一的删除原语，保证 entries 与 recency 不会失去同步。
// 惰性过期、后台清理、显式删除和容量淘汰都经由此处。
func (c *Cache[V]) removeLocked(key string) {
	delete(c.entries, key)
	c.recency.remove(key)
}

// Delete 删除指定键，返回是否确实删除了条目
func (c *Cache[V]) Delete(ctx context.Context, key string) (bool, error) {
	if err := c.guard(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false, nil
	}

	c.removeLocked(key)
	c.stats.delete()
	return true, nil
}

// Clear 清空所有条目，统计计数器保持不变
func (c *Cache[V]) Clear(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry[V])
	c.recency.clear()
	return nil
}

// Len 返回当前存活条目数
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys 按最近使用到最久未使用的顺序返回所有键
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recency.keys()
}

// Stats 返回统计信息快照。计数器通过原子操作读取，不会长时间阻塞写入方。
func (c *Cache[V]) Stats() Stats {
	c.mu.RLock()
	size := int64(len(c.entries))
	lastCleanup := c.lastCleanup
	c.mu.RUnlock()

	stats := c.stats.snapshot()
	stats.Size = size
	stats.MaxSize = int64(c.config.MaxSize)
	stats.DefaultTTL = c.config.DefaultTTL
	stats.LastCleanup = lastCleanup
	return stats
}

// ResetStats 显式清零统计计数器
func (c *Cache[V]) ResetStats() {
	c.stats.reset()
}

// Close 停止后台清理协程并关闭缓存，可重复调用。
// 关闭后的任何操作返回 CACHE_CLOSED 错误。
func (c *Cache[V]) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.janitor.stopAndWait()
	return nil
}

var _ Store[string] = (*Cache[string])(nil)
