package cache

import (
	"sync/atomic"
	"time"
)

// Stats 缓存统计信息的一次快照
type Stats struct {
	Size        int64         `json:"size"`             // 当前缓存中的条目数
	MaxSize     int64         `json:"max_size"`         // 缓存配置的最大容量
	Hits        int64         `json:"hits"`             // 命中次数
	Misses      int64         `json:"misses"`           // 未命中次数（含过期）
	Sets        int64         `json:"sets"`             // 写入次数
	Deletes     int64         `json:"deletes"`          // 显式删除次数
	Evictions   int64         `json:"evictions"`        // 因容量或过期被移除的条目数
	HitRate     float64       `json:"hit_rate"`         // 命中率 Hits / (Hits + Misses)，无访问时为 0
	DefaultTTL  time.Duration `json:"default_ttl"`      // 配置的默认TTL
	LastCleanup time.Time     `json:"last_cleanup"`     // 最后一次后台清理的时间
}

// statsCollector 统计计数器，全部使用原子操作，
// 读取统计信息时不会阻塞写入方。
type statsCollector struct {
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
}

func (s *statsCollector) hit()    { atomic.AddInt64(&s.hits, 1) }
func (s *statsCollector) miss()   { atomic.AddInt64(&s.misses, 1) }
func (s *statsCollector) set()    { atomic.AddInt64(&s.sets, 1) }
func (s *statsCollector) delete() { atomic.AddInt64(&s.deletes, 1) }
func (s *statsCollector) evict()  { atomic.AddInt64(&s.evictions, 1) }

// reset 清零所有计数器
func (s *statsCollector) reset() {
	atomic.StoreInt64(&s.hits, 0)
	atomic.StoreInt64(&s.misses, 0)
	atomic.StoreInt64(&s.sets, 0)
	atomic.StoreInt64(&s.deletes, 0)
	atomic.StoreInt64(&s.evictions, 0)
}

// snapshot 读取计数器当前值并计算命中率
func (s *statsCollector) snapshot() Stats {
	hits := atomic.LoadInt64(&s.hits)
	misses := atomic.LoadInt64(&s.misses)

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		Sets:      atomic.LoadInt64(&s.sets),
		Deletes:   atomic.LoadInt64(&s.deletes),
		Evictions: atomic.LoadInt64(&s.evictions),
		HitRate:   hitRate,
	}
}
