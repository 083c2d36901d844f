package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// janitor 后台清理协程的生命周期句柄。
// 协程由 New 启动，Close 通过 stop 通道发出信号并等待 done 关闭。
type janitor struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func newJanitor(interval time.Duration) *janitor {
	return &janitor{
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// stopAndWait 通知清理协程退出并等待其结束
func (j *janitor) stopAndWait() {
	close(j.stop)
	<-j.done
}

// runJanitor 周期性地清除过期条目，直到收到停止信号。
// 清理过程中的 panic 会被捕获并将缓存标记为损坏，
// 不会波及调用方线程，后续前台操作将观察到 CACHE_CORRUPTED。
func (c *Cache[V]) runJanitor() {
	defer close(c.janitor.done)

	ticker := time.NewTicker(c.janitor.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.janitor.stop:
			return
		}
	}
}

// sweep 执行一轮主动清理
func (c *Cache[V]) sweep() {
	defer func() {
		if r := recover(); r != nil {
			atomic.StoreInt32(&c.corrupted, 1)
			c.log.Errorf("cleanup panic, cache marked corrupted: %v", r)
		}
	}()

	removed := c.purgeExpired(time.Now())
	if removed > 0 {
		c.log.Debugf("cleanup removed %d expired entries", removed)
	}
}

// purgeExpired 在一个临界区内移除所有已过期的条目
func (c *Cache[V]) purgeExpired(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if entry.expired(now) {
			c.removeLocked(key)
			c.stats.evict()
			removed++
		}
	}
	c.lastCleanup = now
	return removed
}

// PurgeExpired 同步执行一轮过期清理并返回移除的条目数，
// 供外部维护调度使用。
func (c *Cache[V]) PurgeExpired(ctx context.Context) (int, error) {
	if err := c.guard(); err != nil {
		return 0, err
	}
	return c.purgeExpired(time.Now()), nil
}
